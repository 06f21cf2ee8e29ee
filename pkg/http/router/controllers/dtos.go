package controllers

import (
	"github.com/lintang-b-s/pici/pkg/datastructure"
	"github.com/lintang-b-s/pici/pkg/engine"
	"github.com/lintang-b-s/pici/pkg/engine/routing"
	"github.com/lintang-b-s/pici/pkg/geo"
)

type regionsRequest struct {
	Limit int `json:"limit" validate:"gte=1,lte=1000"`
}

type nearestRegionRequest struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lon float64 `json:"lon" validate:"min=-180,max=180"`
}

type suggestionRequest struct {
	Strategy string `json:"strategy" validate:"required,oneof=overall centreTown centreLocal existingPaths"`
}

type regionResponse struct {
	Rank     int            `json:"rank"`
	Vertices int            `json:"vertices"`
	Area     float64        `json:"area"`
	Length   float64        `json:"length"`
	South    float64        `json:"south"`
	West     float64        `json:"west"`
	North    float64        `json:"north"`
	East     float64        `json:"east"`
	Centre   geo.Coordinate `json:"centre"`
}

func NewRegionResponse(r engine.RegionSummary) regionResponse {
	return regionResponse{
		Rank:     r.Rank,
		Vertices: r.Vertices,
		Area:     r.Area,
		Length:   r.Length,
		South:    r.South,
		West:     r.West,
		North:    r.North,
		East:     r.East,
		Centre:   r.Centre,
	}
}

func NewRegionsResponse(regions []engine.RegionSummary) []regionResponse {
	resp := make([]regionResponse, 0, len(regions))
	for _, r := range regions {
		resp = append(resp, NewRegionResponse(r))
	}
	return resp
}

type suggestionResponse struct {
	Strategy string                   `json:"strategy"`
	Source   int64                    `json:"source"`
	Target   int64                    `json:"target"`
	Distance float64                  `json:"distance"`
	Cost     float64                  `json:"cost"`
	Path     []datastructure.EdgePair `json:"path"`
	Polyline string                   `json:"polyline"`
}

func NewSuggestionResponse(s *routing.Suggestion) suggestionResponse {
	return suggestionResponse{
		Strategy: string(s.Strategy),
		Source:   s.Source,
		Target:   s.Target,
		Distance: s.Distance,
		Cost:     s.Cost,
		Path:     s.Path,
		Polyline: s.Polyline,
	}
}

type suggestionsResponse struct {
	Area        string               `json:"area"`
	Suggestions []suggestionResponse `json:"suggestions"`
	Failures    map[string]string    `json:"failures,omitempty"`
}

func NewSuggestionsResponse(report *engine.Report) suggestionsResponse {
	resp := suggestionsResponse{
		Area:        report.Area,
		Suggestions: make([]suggestionResponse, 0, len(report.Suggestions)),
		Failures:    report.Failures,
	}
	for _, s := range report.Suggestions {
		resp.Suggestions = append(resp.Suggestions, NewSuggestionResponse(s))
	}
	return resp
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
