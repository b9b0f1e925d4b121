package services

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/playfinity/adaptive-backend/internal/pkg/logger"
	"github.com/playfinity/adaptive-backend/internal/utils"
)

//go:embed trait_priors.yaml
var defaultTraitPriorsYAML []byte

// priorDelta is added on top of the neutral prior at arm creation.
type priorDelta struct {
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
}

type priorTable struct {
	DefaultAlpha float64                          `yaml:"default_alpha"`
	DefaultBeta  float64                          `yaml:"default_beta"`
	Overrides    map[string]map[string]priorDelta `yaml:"overrides"`
}

// PriorService produces starting bandit parameters, optionally biased by a
// user trait. It is consulted exactly once per (user, activity) pair, when
// the arm is lazily created.
type PriorService interface {
	PriorFor(trait, activityID string) (alpha float64, beta float64)
}

type priorService struct {
	log   *logger.Logger
	table priorTable
}

// NewPriorService loads the trait bias table from TRAIT_PRIORS_YAML when
// set, otherwise from the embedded default document.
func NewPriorService(log *logger.Logger) (PriorService, error) {
	serviceLog := log.With("service", "PriorService")

	raw := defaultTraitPriorsYAML
	if path := utils.GetEnv("TRAIT_PRIORS_YAML", "", log); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read trait priors %s: %w", path, err)
		}
		raw = data
	}

	var table priorTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse trait priors: %w", err)
	}
	if table.DefaultAlpha <= 0 {
		table.DefaultAlpha = 1.0
	}
	if table.DefaultBeta <= 0 {
		table.DefaultBeta = 1.0
	}
	for trait, byActivity := range table.Overrides {
		for activity, d := range byActivity {
			if table.DefaultAlpha+d.Alpha <= 0 || table.DefaultBeta+d.Beta <= 0 {
				return nil, fmt.Errorf("trait prior %s/%s yields non-positive shape", trait, activity)
			}
		}
	}

	serviceLog.Info("Trait prior table loaded", "traits", len(table.Overrides))
	return &priorService{log: serviceLog, table: table}, nil
}

func (p *priorService) PriorFor(trait, activityID string) (float64, float64) {
	alpha := p.table.DefaultAlpha
	beta := p.table.DefaultBeta

	key := strings.ToLower(strings.TrimSpace(trait))
	if key == "" || key == "none" {
		return alpha, beta
	}
	byActivity, ok := p.table.Overrides[key]
	if !ok {
		return alpha, beta
	}
	d, ok := byActivity[activityID]
	if !ok {
		return alpha, beta
	}
	return alpha + d.Alpha, beta + d.Beta
}
