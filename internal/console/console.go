// =============================================================================
// Medição Jurídica - Console Host
// =============================================================================
//
// This module drives a wizard.Session from a line-oriented terminal. Each line
// is one command; the current stage's screen is printed after every command
// that changes state.
//
// COMMANDS (Portuguese first, English alias second):
//
//   ajuda | help                          list commands
//   estado | status                       stage and flags
//   mostrar | show                        print the current screen
//   iniciar | begin                       start -> initialData
//   ir | goto <etapa>                     direct navigation
//   definir | set <campo> <valor>         edit the initial record
//   enviar | submit                       submit initialData or detailing
//   voltar | back                         legal backward edge
//   confirmar | confirm                   review -> detailing
//   adicionar | add                       append a charge draft
//   remover | remove <n>                  remove charge draft n (1-based)
//   cobranca | charge <n> <campo> <valor> edit charge draft n
//   opcoes | options <campo> [n]          list catalog options
//   finalizar | finalize                  generate and save the artifact
//   reiniciar | reset                     back to start after generation
//   sair | quit                           leave
//
// =============================================================================

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/medicao-juridica/internal/record"
	"github.com/ginjaninja78/medicao-juridica/internal/wizard"
	"github.com/ginjaninja78/medicao-juridica/pkg/utils"
)

// ArtifactSaver stores generated artifacts. *utils.FileManager implements it.
type ArtifactSaver interface {
	Save(fileName string, data []byte) (path string, archived string, err error)
}

// Console is an interactive host for one session.
type Console struct {
	session *wizard.Session
	saver   ArtifactSaver
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger

	// ArchiveDir and ArchiveRetention enable cleanup of old archived
	// artifacts after each save.
	ArchiveDir       string
	ArchiveRetention time.Duration
}

// New creates a console. saver may be nil, in which case artifacts are only
// kept in the session.
func New(session *wizard.Session, saver ArtifactSaver, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		session: session,
		saver:   saver,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger,
	}
}

type handler func(c *Console, args string) (bool, error)

var commands = map[string]handler{}

var aliases = [][2]string{
	{"ajuda", "help"},
	{"estado", "status"},
	{"mostrar", "show"},
	{"iniciar", "begin"},
	{"ir", "goto"},
	{"definir", "set"},
	{"enviar", "submit"},
	{"voltar", "back"},
	{"confirmar", "confirm"},
	{"adicionar", "add"},
	{"remover", "remove"},
	{"cobranca", "charge"},
	{"opcoes", "options"},
	{"finalizar", "finalize"},
	{"reiniciar", "reset"},
	{"sair", "quit"},
}

func init() {
	byName := map[string]handler{
		"help":     (*Console).help,
		"status":   (*Console).status,
		"show":     (*Console).show,
		"begin":    (*Console).begin,
		"goto":     (*Console).navigate,
		"set":      (*Console).set,
		"submit":   (*Console).submit,
		"back":     (*Console).back,
		"confirm":  (*Console).confirm,
		"add":      (*Console).add,
		"remove":   (*Console).remove,
		"charge":   (*Console).charge,
		"options":  (*Console).options,
		"finalize": (*Console).finalize,
		"reset":    (*Console).reset,
	}
	for _, a := range aliases {
		if h, ok := byName[a[1]]; ok {
			commands[a[0]] = h
			commands[a[1]] = h
		}
	}
}

// =============================================================================
// MAIN LOOP
// =============================================================================

// Run reads commands until "sair", end of input or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	render(c.out, c.session)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(c.out, "[%s]> ", c.session.Stage().Title())
		if !c.in.Scan() {
			fmt.Fprintln(c.out)
			return c.in.Err()
		}

		line := strings.TrimSpace(c.in.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, args := cut(line)
		name = strings.ToLower(name)
		if name == "sair" || name == "quit" || name == "exit" {
			return nil
		}

		h, ok := commands[name]
		if !ok {
			fmt.Fprintf(c.out, "Comando desconhecido: %s (digite 'ajuda')\n", name)
			continue
		}

		changed, err := h(c, args)
		if err != nil {
			c.report(err)
		}
		if changed {
			render(c.out, c.session)
		}
	}
}

// report prints an error the way the user needs to see it.
func (c *Console) report(err error) {
	var verr *wizard.ValidationError
	var guard *wizard.GuardViolation
	var failure *wizard.ExportFailure

	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(c.out, verr.Error())
	case errors.As(err, &guard):
		fmt.Fprintln(c.out, "Aviso:", guard.Error())
		render(c.out, c.session)
	case errors.As(err, &failure):
		c.logger.Error("export failed", zap.Error(failure.Err))
		fmt.Fprintln(c.out, "Erro:", failure.Error())
	default:
		fmt.Fprintln(c.out, "Erro:", err)
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

func (c *Console) help(string) (bool, error) {
	fmt.Fprintln(c.out, "Comandos:")
	for _, a := range aliases {
		fmt.Fprintf(c.out, "  %-10s (%s)\n", a[0], a[1])
	}
	fmt.Fprintln(c.out, "Campos dos dados iniciais:", strings.Join(fieldNames(initialFields), ", "))
	fmt.Fprintln(c.out, "Campos da cobrança:", strings.Join(fieldNames(draftFields), ", "))
	return false, nil
}

func (c *Console) status(string) (bool, error) {
	f := c.session.Flags()
	fmt.Fprintf(c.out, "Etapa: %s\n", c.session.Stage().Title())
	fmt.Fprintf(c.out, "  dados validados: %s\n", record.YesNo(f.InitialValidated))
	fmt.Fprintf(c.out, "  revisão confirmada: %s\n", record.YesNo(f.ReviewConfirmed))
	fmt.Fprintf(c.out, "  detalhamento validado: %s\n", record.YesNo(f.DetailingValidated))
	fmt.Fprintf(c.out, "  finalizado: %s\n", record.YesNo(f.Finalized))
	return false, nil
}

func (c *Console) show(string) (bool, error) { return true, nil }

func (c *Console) begin(string) (bool, error) { return true, c.session.Begin() }

func (c *Console) back(string) (bool, error) { return true, c.session.Back() }

func (c *Console) confirm(string) (bool, error) { return true, c.session.ConfirmReview() }

func (c *Console) navigate(args string) (bool, error) {
	target, err := wizard.ParseStage(args)
	if err != nil {
		return false, err
	}
	if err := c.session.Navigate(target); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Console) set(args string) (bool, error) {
	field, value := cut(args)
	setter, ok := initialFields[strings.ToLower(field)]
	if !ok {
		return false, fmt.Errorf("campo desconhecido %q; campos: %s", field, strings.Join(fieldNames(initialFields), ", "))
	}

	var setErr error
	err := c.session.EditInitial(func(r *record.InitialFilingRecord) {
		setErr = setter(r, value, c.session.Catalog())
	})
	if err != nil {
		return false, err
	}
	return false, setErr
}

func (c *Console) submit(string) (bool, error) {
	switch c.session.Stage() {
	case wizard.StageInitialData:
		return true, c.session.SubmitInitial()
	case wizard.StageDetailing:
		return true, c.session.SubmitDetailing()
	}
	return false, fmt.Errorf("nada a enviar em '%s'", c.session.Stage().Title())
}

func (c *Console) add(string) (bool, error) {
	i, err := c.session.AddDraft()
	if err != nil {
		return false, err
	}
	fmt.Fprintf(c.out, "Cobrança #%d adicionada.\n", i+1)
	return true, nil
}

func (c *Console) remove(args string) (bool, error) {
	i, err := draftIndex(args)
	if err != nil {
		return false, err
	}
	if err := c.session.RemoveDraft(i); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Console) charge(args string) (bool, error) {
	n, rest := cut(args)
	i, err := draftIndex(n)
	if err != nil {
		return false, err
	}

	field, value := cut(rest)
	setter, ok := draftFields[strings.ToLower(field)]
	if !ok {
		return false, fmt.Errorf("campo desconhecido %q; campos: %s", field, strings.Join(fieldNames(draftFields), ", "))
	}

	initial, _ := c.session.Initial()
	var setErr error
	err = c.session.EditDraft(i, func(d *record.ChargeLineDraft) {
		setErr = setter(d, value, initial.ContractingCompany, c.session.Catalog())
	})
	if err != nil {
		return false, err
	}
	if setErr != nil {
		return false, setErr
	}

	primary, secondary, _ := c.session.ServiceCodes(i)
	fmt.Fprintf(c.out, "Código de serviço: %s", primary)
	if secondary != "" {
		fmt.Fprintf(c.out, " / %s", secondary)
	}
	fmt.Fprintln(c.out)
	return false, nil
}

func (c *Console) options(args string) (bool, error) {
	field, rest := cut(args)
	cat := c.session.Catalog()
	initial, _ := c.session.Initial()

	var list []string
	switch strings.ToLower(field) {
	case "empresa":
		list = cat.CompanyNames()
	case "advogado":
		list = cat.Lawyers
	case "tipo_documento":
		list = cat.DocumentTypes
	case "materia":
		list = cat.LegalMatters
	case "tipo_cobranca", "tipo_segunda_cobranca":
		list = cat.BillingTypes
	case "projeto":
		list = cat.Projects(initial.ContractingCompany)
	case "trecho":
		i, err := draftIndex(rest)
		if err != nil {
			return false, err
		}
		drafts := c.session.Drafts()
		if i >= len(drafts) {
			return false, wizard.ErrDraftIndex
		}
		list = cat.Segments(initial.ContractingCompany, drafts[i].ProjectName)
	default:
		return false, fmt.Errorf("sem opções para %q", field)
	}

	for i, o := range list {
		if o == "" {
			o = "(sem trecho)"
		}
		fmt.Fprintf(c.out, "  %2d. %s\n", i+1, o)
	}
	return false, nil
}

func (c *Console) finalize(string) (bool, error) {
	artifact, err := c.session.Finalize()
	if err != nil {
		return true, err
	}

	if c.saver == nil {
		return true, nil
	}

	path, archived, err := c.saver.Save(artifact.FileName, artifact.Data)
	if err != nil {
		return true, fmt.Errorf("failed to save %s: %w", artifact.FileName, err)
	}
	if archived != "" {
		fmt.Fprintf(c.out, "Arquivo anterior arquivado em %s\n", archived)
	}
	fmt.Fprintf(c.out, "Arquivo salvo em %s\n", path)
	c.logger.Info("artifact saved", zap.String("path", path), zap.String("archived", archived))

	if c.ArchiveRetention > 0 {
		removed, err := utils.CleanOldArchives(c.ArchiveDir, c.ArchiveRetention)
		if err != nil {
			c.logger.Warn("archive cleanup failed", zap.Error(err))
		} else if removed > 0 {
			c.logger.Info("old archives removed", zap.Int("count", removed))
		}
	}
	return true, nil
}

func (c *Console) reset(string) (bool, error) { return true, c.session.Reset() }

// =============================================================================
// HELPERS
// =============================================================================

// cut splits off the first word of s.
func cut(s string) (string, string) {
	s = strings.TrimSpace(s)
	head, tail, _ := strings.Cut(s, " ")
	return head, strings.TrimSpace(tail)
}

// draftIndex converts a 1-based draft number to an index.
func draftIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("número de cobrança inválido: %q", s)
	}
	return n - 1, nil
}
