package controllers

import (
	"context"

	"github.com/lintang-b-s/pici/pkg/engine"
	"github.com/lintang-b-s/pici/pkg/engine/routing"
)

type PlannerService interface {
	Regions(limit int) []engine.RegionSummary
	NearestRegion(lat, lon float64) (engine.RegionSummary, error)
	Suggestion(strategy string) (*routing.Suggestion, error)
	Suggestions(ctx context.Context) (*engine.Report, error)
}
