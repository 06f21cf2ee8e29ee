package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/pici/pkg"
	helper "github.com/lintang-b-s/pici/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type plannerAPI struct {
	plannerService PlannerService
	log            *zap.Logger
}

func New(plannerService PlannerService, log *zap.Logger) *plannerAPI {
	return &plannerAPI{
		plannerService: plannerService,
		log:            log,
	}
}

func (api *plannerAPI) Routes(group *helper.RouteGroup) {
	group.GET("/regions", api.regions)
	group.GET("/regions/nearest", api.nearestRegion)
	group.GET("/suggestions", api.suggestions)
	group.GET("/suggestions/:strategy", api.suggestion)
}

func (api *plannerAPI) regions(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request := regionsRequest{Limit: pkg.DEFAULT_REGIONS_LIMIT}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		var err error
		request.Limit, err = strconv.Atoi(limit)
		if err != nil {
			api.BadRequestResponse(w, r, errors.New("limit must be a valid int"))
			return
		}
	}
	if err := validateStruct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	regions := api.plannerService.Regions(request.Limit)

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRegionsResponse(regions)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) nearestRegion(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request nearestRegionRequest
		err     error
	)

	query := r.URL.Query()

	request.Lat, err = strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lat is required and must be a valid float"))
		return
	}
	request.Lon, err = strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		api.BadRequestResponse(w, r, errors.New("lon is required and must be a valid float"))
		return
	}
	if err := validateStruct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	region, err := api.plannerService.NearestRegion(request.Lat, request.Lon)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRegionResponse(region)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) suggestions(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	report, err := api.plannerService.Suggestions(r.Context())
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewSuggestionsResponse(report)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *plannerAPI) suggestion(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request := suggestionRequest{Strategy: p.ByName("strategy")}
	if err := validateStruct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	s, err := api.plannerService.Suggestion(request.Strategy)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewSuggestionResponse(s)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
