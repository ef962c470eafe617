// Package http implements the REST API for the ERIO Dashboard.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/erio-hub/erio-dashboard/internal/application/command"
	"github.com/erio-hub/erio-dashboard/internal/application/query"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "ERIO Dashboard API",
		"version":     "v1",
		"description": "REST API for the External Relations and International Office dashboard",
		"endpoints": map[string]string{
			"health":     "/health",
			"stats":      "/api/v1/dashboard/stats",
			"partners":   "/api/v1/partners",
			"activities": "/api/v1/activities",
			"events":     "/api/v1/events",
			"mobility":   "/api/v1/mobility",
			"programmes": "/api/v1/programmes",
			"views":      "/api/v1/views/total",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// DASHBOARD STATS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetDashboardStats handles GET /api/v1/dashboard/stats
func (s *Server) handleGetDashboardStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetDashboardStatsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Stats handler not configured")
		return
	}

	result, err := s.deps.GetDashboardStatsHandler.Handle(r.Context(), query.GetDashboardStatsQuery{})
	if err != nil {
		s.logger.Error("failed to get dashboard stats", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to get dashboard stats")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleUpdateStats handles PUT /api/v1/dashboard/stats
func (s *Server) handleUpdateStats(w http.ResponseWriter, r *http.Request) {
	if s.deps.UpdateStatsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Stats handler not configured")
		return
	}

	var body struct {
		PartnerUniversities int     `json:"partnerUniversities"`
		ActiveAgreements    int     `json:"activeAgreements"`
		StudentExchanges    int     `json:"studentExchanges"`
		EventsThisYear      int     `json:"eventsThisYear"`
		AsiaPacificPct      int     `json:"asiaPacificPct"`
		EuropePct           int     `json:"europePct"`
		AmericasPct         int     `json:"americasPct"`
		ExchangeProgrammes  int     `json:"exchangeProgrammes"`
		ResearchProgrammes  int     `json:"researchProgrammes"`
		SummerProgrammes    int     `json:"summerProgrammes"`
		EngagementScore     float64 `json:"engagementScore"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	cmd := command.UpdateStatsCommand{
		PartnerUniversities: body.PartnerUniversities,
		ActiveAgreements:    body.ActiveAgreements,
		StudentExchanges:    body.StudentExchanges,
		EventsThisYear:      body.EventsThisYear,
		AsiaPacificPct:      body.AsiaPacificPct,
		EuropePct:           body.EuropePct,
		AmericasPct:         body.AmericasPct,
		ExchangeProgrammes:  body.ExchangeProgrammes,
		ResearchProgrammes:  body.ResearchProgrammes,
		SummerProgrammes:    body.SummerProgrammes,
		EngagementScore:     body.EngagementScore,
		AdminID:             adminIDFrom(r),
	}

	if err := s.deps.UpdateStatsHandler.Handle(r.Context(), cmd); err != nil {
		s.writeCommandError(w, r, err, "Failed to update stats")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ══════════════════════════════════════════════════════════════════════════════
// PARTNER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleBrowsePartners handles GET /api/v1/partners
func (s *Server) handleBrowsePartners(w http.ResponseWriter, r *http.Request) {
	if s.deps.BrowsePartnersHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Partner handler not configured")
		return
	}

	q := query.BrowsePartnersQuery{
		Country:    getQueryParam(r, "country", ""),
		ActiveOnly: getQueryParamBool(r, "active"),
		Limit:      getQueryParamInt(r, "limit", 0),
		Offset:     getQueryParamInt(r, "offset", 0),
	}

	result, err := s.deps.BrowsePartnersHandler.Handle(r.Context(), q)
	if err != nil {
		if shared.IsValidation(err) {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		s.logger.Error("failed to list partners", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to list partners")
		return
	}

	meta := &ResponseMeta{
		TotalCount: result.TotalCount,
		HasMore:    result.HasMore,
	}
	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// handleGetPartner handles GET /api/v1/partners/{id}
func (s *Server) handleGetPartner(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Partner ID is required")
		return
	}

	if s.deps.GetPartnerHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Partner handler not configured")
		return
	}

	result, err := s.deps.GetPartnerHandler.Handle(r.Context(), id)
	if err != nil {
		if shared.IsNotFound(err) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Partner not found")
			return
		}
		s.logger.Error("failed to get partner", logger.Err(err), logger.PartnerID(id))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to get partner")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSavePartner handles POST /api/v1/partners and PUT /api/v1/partners/{id}
func (s *Server) handleSavePartner(w http.ResponseWriter, r *http.Request) {
	if s.deps.SavePartnerHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Partner handler not configured")
		return
	}

	var body struct {
		Name        string   `json:"name"`
		Country     string   `json:"country"`
		City        string   `json:"city"`
		Lat         float64  `json:"lat"`
		Lng         float64  `json:"lng"`
		Students    int      `json:"students"`
		Programs    []string `json:"programs"`
		Established int      `json:"established"`
		Type        string   `json:"type"`
		SignDate    string   `json:"signDate"`
		ExpiryDate  string   `json:"expiryDate"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	cmd := command.SavePartnerCommand{
		ID:          r.PathValue("id"), // empty on POST = create
		Name:        body.Name,
		Country:     body.Country,
		City:        body.City,
		Lat:         body.Lat,
		Lng:         body.Lng,
		Students:    body.Students,
		Programs:    body.Programs,
		Established: body.Established,
		Type:        body.Type,
		SignDate:    body.SignDate,
		ExpiryDate:  body.ExpiryDate,
		AdminID:     adminIDFrom(r),
	}

	if err := cmd.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := s.deps.SavePartnerHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeCommandError(w, r, err, "Failed to save partner")
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// handleDeletePartner handles DELETE /api/v1/partners/{id}
func (s *Server) handleDeletePartner(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, "Partner", func(id, adminID string) error {
		if s.deps.DeletePartnerHandler == nil {
			return errNotConfigured
		}
		return s.deps.DeletePartnerHandler.Handle(r.Context(), id, adminID)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTENT FEED HANDLERS (activities, events, mobility, programmes)
// ══════════════════════════════════════════════════════════════════════════════

// handleListActivities handles GET /api/v1/activities
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListActivitiesHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Activity handler not configured")
		return
	}

	q := query.ListActivitiesQuery{
		UpcomingOnly: getQueryParamBool(r, "upcoming"),
		Limit:        getQueryParamInt(r, "limit", 0),
		Offset:       getQueryParamInt(r, "offset", 0),
	}

	result, err := s.deps.ListActivitiesHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeQueryError(w, err, "Failed to list activities")
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{TotalCount: result.TotalCount, HasMore: result.HasMore})
}

// handleSaveActivity handles POST /api/v1/activities and PUT /api/v1/activities/{id}
func (s *Server) handleSaveActivity(w http.ResponseWriter, r *http.Request) {
	if s.deps.SaveActivityHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Activity handler not configured")
		return
	}

	var body struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		ActivityDate string `json:"activityDate"`
		ImageURL     string `json:"imageUrl"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	cmd := command.SaveActivityCommand{
		ID:           r.PathValue("id"),
		Title:        body.Title,
		Description:  body.Description,
		ActivityDate: body.ActivityDate,
		ImageURL:     body.ImageURL,
		AdminID:      adminIDFrom(r),
	}
	if err := cmd.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	id, err := s.deps.SaveActivityHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeCommandError(w, r, err, "Failed to save activity")
		return
	}

	s.writeSaved(w, r, id)
}

// handleDeleteActivity handles DELETE /api/v1/activities/{id}
func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, "Activity", func(id, adminID string) error {
		if s.deps.DeleteActivityHandler == nil {
			return errNotConfigured
		}
		return s.deps.DeleteActivityHandler.Handle(r.Context(), id, adminID)
	})
}

// handleListEvents handles GET /api/v1/events
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListEventsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Event handler not configured")
		return
	}

	q := query.ListEventsQuery{
		Year:         getQueryParamInt(r, "year", 0),
		UpcomingOnly: getQueryParamBool(r, "upcoming"),
		Limit:        getQueryParamInt(r, "limit", 0),
		Offset:       getQueryParamInt(r, "offset", 0),
	}

	result, err := s.deps.ListEventsHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeQueryError(w, err, "Failed to list events")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSaveEvent handles POST /api/v1/events and PUT /api/v1/events/{id}
func (s *Server) handleSaveEvent(w http.ResponseWriter, r *http.Request) {
	if s.deps.SaveEventHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Event handler not configured")
		return
	}

	var body struct {
		Title            string `json:"title"`
		Place            string `json:"place"`
		EventDate        string `json:"eventDate"`
		ShortDescription string `json:"shortDescription"`
		ImageURL         string `json:"imageUrl"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	cmd := command.SaveEventCommand{
		ID:               r.PathValue("id"),
		Title:            body.Title,
		Place:            body.Place,
		EventDate:        body.EventDate,
		ShortDescription: body.ShortDescription,
		ImageURL:         body.ImageURL,
		AdminID:          adminIDFrom(r),
	}
	if err := cmd.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	id, err := s.deps.SaveEventHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeCommandError(w, r, err, "Failed to save event")
		return
	}

	s.writeSaved(w, r, id)
}

// handleDeleteEvent handles DELETE /api/v1/events/{id}
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, "Event", func(id, adminID string) error {
		if s.deps.DeleteEventHandler == nil {
			return errNotConfigured
		}
		return s.deps.DeleteEventHandler.Handle(r.Context(), id, adminID)
	})
}

// handleListMobility handles GET /api/v1/mobility
func (s *Server) handleListMobility(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListMobilityHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Mobility handler not configured")
		return
	}

	q := query.ListMobilityQuery{
		Type:      getQueryParam(r, "type", ""),
		Direction: getQueryParam(r, "direction", ""),
		Limit:     getQueryParamInt(r, "limit", 0),
		Offset:    getQueryParamInt(r, "offset", 0),
	}

	result, err := s.deps.ListMobilityHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeQueryError(w, err, "Failed to list mobility placements")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSaveMobility handles POST /api/v1/mobility and PUT /api/v1/mobility/{id}
func (s *Server) handleSaveMobility(w http.ResponseWriter, r *http.Request) {
	if s.deps.SaveMobilityHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Mobility handler not configured")
		return
	}

	var body struct {
		Type            string `json:"type"`
		Direction       string `json:"direction"`
		ParticipantName string `json:"participantName"`
		Institution     string `json:"institution"`
		Country         string `json:"country"`
		AcademicYear    string `json:"academicYear"`
		StartDate       string `json:"startDate"`
		EndDate         string `json:"endDate"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	id, err := s.deps.SaveMobilityHandler.Handle(r.Context(), command.SaveMobilityCommand{
		ID:              r.PathValue("id"),
		Type:            body.Type,
		Direction:       body.Direction,
		ParticipantName: body.ParticipantName,
		Institution:     body.Institution,
		Country:         body.Country,
		AcademicYear:    body.AcademicYear,
		StartDate:       body.StartDate,
		EndDate:         body.EndDate,
		AdminID:         adminIDFrom(r),
	})
	if err != nil {
		s.writeCommandError(w, r, err, "Failed to save mobility placement")
		return
	}

	s.writeSaved(w, r, id)
}

// handleDeleteMobility handles DELETE /api/v1/mobility/{id}
func (s *Server) handleDeleteMobility(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, "Mobility placement", func(id, adminID string) error {
		if s.deps.DeleteMobilityHandler == nil {
			return errNotConfigured
		}
		return s.deps.DeleteMobilityHandler.Handle(r.Context(), id, adminID)
	})
}

// handleListProgrammes handles GET /api/v1/programmes
func (s *Server) handleListProgrammes(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListProgrammesHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Programme handler not configured")
		return
	}

	q := query.ListProgrammesQuery{
		Category: getQueryParam(r, "category", ""),
	}

	result, err := s.deps.ListProgrammesHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeQueryError(w, err, "Failed to list programmes")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleSaveProgramme handles POST /api/v1/programmes and PUT /api/v1/programmes/{id}
func (s *Server) handleSaveProgramme(w http.ResponseWriter, r *http.Request) {
	if s.deps.SaveProgrammeHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Programme handler not configured")
		return
	}

	var body struct {
		Name        string `json:"name"`
		Category    string `json:"category"`
		Description string `json:"description"`
		PartnerName string `json:"partnerName"`
		StartDate   string `json:"startDate"`
		DurationWks int    `json:"durationWeeks"`
		Slots       int    `json:"slots"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	cmd := command.SaveProgrammeCommand{
		ID:          r.PathValue("id"),
		Name:        body.Name,
		Category:    body.Category,
		Description: body.Description,
		PartnerName: body.PartnerName,
		StartDate:   body.StartDate,
		DurationWks: body.DurationWks,
		Slots:       body.Slots,
		AdminID:     adminIDFrom(r),
	}
	if err := cmd.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	id, err := s.deps.SaveProgrammeHandler.Handle(r.Context(), cmd)
	if err != nil {
		s.writeCommandError(w, r, err, "Failed to save programme")
		return
	}

	s.writeSaved(w, r, id)
}

// handleDeleteProgramme handles DELETE /api/v1/programmes/{id}
func (s *Server) handleDeleteProgramme(w http.ResponseWriter, r *http.Request) {
	s.handleDelete(w, r, "Programme", func(id, adminID string) error {
		if s.deps.DeleteProgrammeHandler == nil {
			return errNotConfigured
		}
		return s.deps.DeleteProgrammeHandler.Handle(r.Context(), id, adminID)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// VIEW COUNTER HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetViewTotal handles GET /api/v1/views/total
func (s *Server) handleGetViewTotal(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetViewTotalHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "View handler not configured")
		return
	}

	result, err := s.deps.GetViewTotalHandler.Handle(r.Context())
	if err != nil {
		s.logger.Error("failed to get view total", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to get view total")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleRecordView handles POST /api/v1/views
func (s *Server) handleRecordView(w http.ResponseWriter, r *http.Request) {
	if s.deps.RecordViewHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "View handler not configured")
		return
	}

	var body struct {
		SessionID string `json:"sessionId"`
	}
	// An empty body is fine, the handler assigns a session ID.
	if r.Body != nil {
		data, err := io.ReadAll(io.LimitReader(r.Body, 4096))
		if err == nil && len(data) > 0 {
			_ = json.Unmarshal(data, &body)
		}
	}

	result, err := s.deps.RecordViewHandler.Handle(r.Context(), command.RecordViewCommand{
		SessionID: body.SessionID,
	})
	if err != nil {
		s.logger.Error("failed to record view", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to record view")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleLogin handles POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.deps.LoginAdminHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Login handler not configured")
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}

	cmd := command.LoginAdminCommand{
		Email:    body.Email,
		Password: body.Password,
	}
	if err := cmd.Validate(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := s.deps.LoginAdminHandler.Handle(r.Context(), cmd)
	if err != nil {
		if shared.IsUnauthorized(err) {
			writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
			return
		}
		if shared.IsValidation(err) {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		s.logger.Error("login failed", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleVerify handles GET /api/v1/auth/verify. The middleware has already
// validated the token; this re-checks that the account still exists, so a
// token issued for a since-deleted admin stops working immediately.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if s.deps.VerifyAdminHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Verify handler not configured")
		return
	}

	claims, ok := getAuthClaims(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing session")
		return
	}

	identity, err := s.deps.VerifyAdminHandler.Handle(r.Context(), claims.AdminID)
	if err != nil {
		if shared.IsNotFound(err) {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Account no longer exists")
			return
		}
		s.logger.Error("verify failed", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Verification failed")
		return
	}

	writeJSON(w, http.StatusOK, identity)
}

// handleRecentChanges handles GET /api/v1/admin/changes
func (s *Server) handleRecentChanges(w http.ResponseWriter, r *http.Request) {
	if s.deps.RecentChanges == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Change feed not configured")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"changes": s.deps.RecentChanges.Recent(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SHARED HANDLER HELPERS
// ══════════════════════════════════════════════════════════════════════════════

var errNotConfigured = errors.New("handler not configured")

// decodeBody decodes a JSON request body, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := decoder.Decode(dest); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return false
	}
	return true
}

// adminIDFrom returns the acting admin's ID from the validated token claims.
func adminIDFrom(r *http.Request) string {
	if claims, ok := getAuthClaims(r.Context()); ok {
		return claims.AdminID
	}
	return ""
}

// handleDelete is the shared delete flow: path ID, command, error mapping.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, noun string, del func(id, adminID string) error) {
	id := r.PathValue("id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", noun+" ID is required")
		return
	}

	err := del(id, adminIDFrom(r))
	if err != nil {
		if errors.Is(err, errNotConfigured) {
			writeJSONError(w, http.StatusNotImplemented, "not_implemented", noun+" handler not configured")
			return
		}
		if shared.IsNotFound(err) {
			writeJSONError(w, http.StatusNotFound, "not_found", noun+" not found")
			return
		}
		s.logger.Error("delete failed", logger.Err(err), logger.String("id", id))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to delete "+noun)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// writeSaved responds to a successful create-or-update with the entity ID.
func (s *Server) writeSaved(w http.ResponseWriter, r *http.Request, id string) {
	status := http.StatusOK
	if r.Method == http.MethodPost {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]string{"id": id})
}

// writeCommandError maps a command failure to an HTTP status.
func (s *Server) writeCommandError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case shared.IsAlreadyExists(err):
		writeJSONError(w, http.StatusConflict, "already_exists", err.Error())
	default:
		s.logger.Error(fallback, logger.Err(err), logger.String("path", r.URL.Path))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

// writeQueryError maps a query failure to an HTTP status.
func (s *Server) writeQueryError(w http.ResponseWriter, err error, fallback string) {
	if shared.IsValidation(err) {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	s.logger.Error(fallback, logger.Err(err))
	writeJSONError(w, http.StatusInternalServerError, "internal_error", fallback)
}
