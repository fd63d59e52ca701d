package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/medicao-juridica/internal/record"
	"github.com/ginjaninja78/medicao-juridica/internal/validation"
	"github.com/ginjaninja78/medicao-juridica/internal/wizard"
)

const rule = "============================================================"

// render writes the screen of the session's current stage.
func render(w io.Writer, s *wizard.Session) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  %s\n", s.Stage().Title())
	fmt.Fprintln(w, rule)

	switch s.Stage() {
	case wizard.StageStart:
		fmt.Fprintln(w, "Sistema de Medições Jurídicas")
		fmt.Fprintln(w, "Módulo de Cadastro Inicial")
		fmt.Fprintln(w, "Digite 'iniciar' para começar um lançamento.")

	case wizard.StageInitialData:
		renderInitialForm(w, s.InitialForm())
		fmt.Fprintln(w, "Use 'definir <campo> <valor>' e depois 'enviar'.")

	case wizard.StageReview:
		initial, _ := s.Initial()
		renderInitialSummary(w, initial)
		fmt.Fprintln(w, "Digite 'confirmar' para seguir ou 'voltar' para editar.")

	case wizard.StageDetailing:
		renderDrafts(w, s)
		fmt.Fprintln(w, "Use 'cobranca <n> <campo> <valor>', 'adicionar', 'remover <n>' e 'enviar'.")

	case wizard.StageDetailedReview:
		initial, _ := s.Initial()
		renderInitialSummary(w, initial)
		renderFinalized(w, s.Finalized())
		fmt.Fprintln(w, "Digite 'finalizar' para gerar o arquivo ou 'voltar' para editar.")

	case wizard.StageGeneration:
		if a := s.Artifact(); a != nil {
			fmt.Fprintf(w, "Arquivo gerado: %s (%d bytes)\n", a.FileName, len(a.Data))
			fmt.Fprintln(w, "Digite 'reiniciar' para finalizar e voltar ao início.")
		} else {
			fmt.Fprintln(w, "Nenhum arquivo gerado. Digite 'finalizar' para tentar novamente.")
		}
	}
}

func renderInitialForm(w io.Writer, r record.InitialFilingRecord) {
	rows := [][2]string{
		{"cnpj", r.SupplierTaxID},
		{"empresa", r.ContractingCompany},
		{"advogado", r.ResponsibleLawyer},
		{"tipo_documento", r.DocumentType},
		{"data_prevista", r.IssueDate()},
		{"possui_contrato", record.YesNo(r.HasLinkedContract)},
		{"numero_contrato", r.LinkedContractNumber},
		{"possui_pedido", record.YesNo(r.HasLinkedOrder)},
		{"numero_pedido", r.LinkedOrderNumber},
		{"numero_medicao", r.InternalMeasurementNumber},
		{"descricao", r.BriefDescription},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-16s %s\n", row[0], row[1])
	}
}

func renderInitialSummary(w io.Writer, r record.InitialFilingRecord) {
	rows := [][2]string{
		{"CNPJ", validation.FormatTaxID(r.SupplierTaxID)},
		{"Empresa", r.ContractingCompany},
		{"Advogado", r.ResponsibleLawyer},
		{"Tipo Documento", r.DocumentType},
		{"Data Emissão", r.IssueDate()},
		{"Contrato", r.ContractLabel()},
		{"Pedido", r.OrderLabel()},
		{"Nº Medição", r.InternalMeasurementNumber},
		{"Descrição", r.BriefDescription},
	}
	for _, row := range rows {
		fmt.Fprintf(w, "  %-16s %s\n", row[0], row[1])
	}
}

func renderDrafts(w io.Writer, s *wizard.Session) {
	for i, d := range s.Drafts() {
		primary, secondary, _ := s.ServiceCodes(i)

		fmt.Fprintf(w, "--- Cobrança #%d ---\n", i+1)
		fmt.Fprintf(w, "  %-24s %s %s\n", "possui_espaider", record.YesNo(d.HasSpaiderNumber), d.SpaiderNumber)
		fmt.Fprintf(w, "  %-24s %s %s\n", "possui_projeto", record.YesNo(d.HasLinkedProject), strings.TrimSpace(d.ProjectName+" "+d.Segment))
		fmt.Fprintf(w, "  %-24s %s\n", "materia", d.LegalMatter)
		fmt.Fprintf(w, "  %-24s %s | %s | %s\n", "cobranca", d.Primary.BillingType, d.Primary.Amount, primary)
		if d.HasSecondCharge {
			fmt.Fprintf(w, "  %-24s %s | %s | %s\n", "segunda_cobranca", d.Secondary.BillingType, d.Secondary.Amount, secondary)
		}
	}
}

func renderFinalized(w io.Writer, charges []record.FinalizedChargeRecord) {
	fmt.Fprintln(w, "--- Cobranças ---")
	fmt.Fprintf(w, "  %-4s %-12s %-28s %-16s %-18s %14s  %s\n",
		"Idx", "Nº Espaider", "Projeto", "Matéria", "Tipo Cobrança", "Valor", "Resumo")

	for _, l := range record.Flatten(charges) {
		project := strings.TrimSpace(l.ProjectName + " " + l.Segment)
		fmt.Fprintf(w, "  %-4d %-12s %-28s %-16s %-18s %14s  %s\n",
			l.Charge+1, l.SpaiderNumber, project, l.LegalMatter, l.BillingType,
			validation.FormatAmount(l.Value), l.ServiceCode)
	}

	fmt.Fprintf(w, "  Total: R$ %s\n", validation.FormatAmount(record.Total(charges)))
}
