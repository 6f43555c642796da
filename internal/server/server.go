package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"skotani/hyakumap/internal/store"
	"skotani/hyakumap/logger"
)

// Server exposes the query layer over HTTP for map-based browsing
type Server struct {
	store *store.Store
	log   *logger.Logger
}

// New creates a server over the given store
func New(st *store.Store) *Server {
	return &Server{
		store: st,
		log:   logger.ForServer(),
	}
}

// Router builds the HTTP route table
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/search", s.handleSearch).Methods(http.MethodGet)
	router.HandleFunc("/api/restaurants", s.handleRestaurants).Methods(http.MethodGet)
	router.HandleFunc("/api/categories", s.handleCategories).Methods(http.MethodGet)
	router.HandleFunc("/api/stats", s.handleStats).Methods(http.MethodGet)
	return router
}

// MapPoint is the restaurant shape the map frontend consumes
type MapPoint struct {
	Name       string   `json:"name"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Rating     *float64 `json:"rating"`
	Categories *string  `json:"categories"`
	Address    *string  `json:"address"`
	Station    *string  `json:"station"`
	PriceRange *string  `json:"price_range"`
	Hours      *string  `json:"hours"`
	Closed     *string  `json:"closed"`
	Phone      *string  `json:"phone"`
	URL        string   `json:"url"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := store.SearchParams{
		Query:      query.Get("q"),
		Category:   query.Get("category"),
		Region:     query.Get("region"),
		PriceRange: query.Get("price_range"),
		Limit:      100,
		MinRating:  floatParam(query.Get("min_rating")),
		South:      floatParam(query.Get("south")),
		West:       floatParam(query.Get("west")),
		North:      floatParam(query.Get("north")),
		East:       floatParam(query.Get("east")),
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		params.Limit = limit
	}

	results, err := s.store.Search(params)
	if err != nil {
		s.serverError(w, err, "search failed")
		return
	}
	if results == nil {
		results = []store.Restaurant{}
	}
	s.writeJSON(w, results)
}

func (s *Server) handleRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := s.store.AllWithCoords()
	if err != nil {
		s.serverError(w, err, "restaurant listing failed")
		return
	}

	points := make([]MapPoint, 0, len(restaurants))
	for _, rest := range restaurants {
		if rest.Latitude == nil || rest.Longitude == nil {
			continue
		}
		points = append(points, MapPoint{
			Name:       rest.Name,
			Lat:        *rest.Latitude,
			Lng:        *rest.Longitude,
			Rating:     rest.Rating,
			Categories: rest.Categories,
			Address:    rest.Address,
			Station:    rest.Station,
			PriceRange: rest.PriceRange,
			Hours:      rest.Hours,
			Closed:     rest.Closed,
			Phone:      rest.Phone,
			URL:        rest.URL,
		})
	}
	s.writeJSON(w, points)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.CategoryNames()
	if err != nil {
		s.serverError(w, err, "category listing failed")
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, names)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.serverError(w, err, "stats failed")
		return
	}
	s.writeJSON(w, stats)
}

func (s *Server) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) serverError(w http.ResponseWriter, err error, msg string) {
	s.log.Error().Err(err).Msg(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

func floatParam(value string) *float64 {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
