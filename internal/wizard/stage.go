package wizard

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/medicao-juridica/internal/catalog"
)

// Stage is one step of the wizard.
type Stage int

const (
	StageStart Stage = iota
	StageInitialData
	StageReview
	StageDetailing
	StageDetailedReview
	StageGeneration
)

// Stages lists every stage in flow order.
var Stages = []Stage{
	StageStart,
	StageInitialData,
	StageReview,
	StageDetailing,
	StageDetailedReview,
	StageGeneration,
}

var stageKeys = map[Stage]string{
	StageStart:          "inicio",
	StageInitialData:    "dados",
	StageReview:         "revisao",
	StageDetailing:      "detalhamento",
	StageDetailedReview: "revisao_detalhada",
	StageGeneration:     "geracao",
}

var stageTitles = map[Stage]string{
	StageStart:          "Início",
	StageInitialData:    "Dados Iniciais",
	StageReview:         "Revisão",
	StageDetailing:      "Detalhamento",
	StageDetailedReview: "Revisão Detalhada",
	StageGeneration:     "Geração do Arquivo",
}

// String returns the stage key, e.g. "revisao_detalhada".
func (s Stage) String() string {
	if k, ok := stageKeys[s]; ok {
		return k
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Title returns the Portuguese label shown to the user.
func (s Stage) Title() string {
	if t, ok := stageTitles[s]; ok {
		return t
	}
	return s.String()
}

// ParseStage accepts a stage key, a title (accents and case ignored) or a
// 1-based position in the flow.
func ParseStage(input string) (Stage, error) {
	input = strings.TrimSpace(input)
	for _, s := range Stages {
		if input == s.String() {
			return s, nil
		}
	}

	titles := make([]string, len(Stages))
	for i, s := range Stages {
		titles[i] = s.Title()
	}
	if title, ok := catalog.Resolve(titles, input); ok {
		for _, s := range Stages {
			if s.Title() == title {
				return s, nil
			}
		}
	}

	return StageStart, fmt.Errorf("unknown stage %q", input)
}
