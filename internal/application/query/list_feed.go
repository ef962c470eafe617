package query

import (
	"context"
	"errors"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/activity"
	"github.com/erio-hub/erio-dashboard/internal/domain/event"
	"github.com/erio-hub/erio-dashboard/internal/domain/mobility"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// FEED QUERIES
// Listings for the public activities, events and mobility pages. These share
// one pagination convention, so they live together.
// ══════════════════════════════════════════════════════════════════════════════

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 200
)

func normalizePage(limit, offset int) (int, int, error) {
	if limit < 0 || offset < 0 {
		return 0, 0, errors.New("limit and offset cannot be negative")
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if limit == 0 {
		limit = defaultFeedLimit
	}
	return limit, offset, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Activities
// ─────────────────────────────────────────────────────────────────────────────

// ActivityDTO is the activity shape the public API serves.
type ActivityDTO struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ActivityDate string `json:"activityDate,omitempty"`
	DisplayDate  string `json:"displayDate,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// ListActivitiesQuery contains the parameters for an activity listing.
type ListActivitiesQuery struct {
	UpcomingOnly bool
	Limit        int
	Offset       int
}

// ListActivitiesResult is the paged activity listing.
type ListActivitiesResult struct {
	Activities  []ActivityDTO `json:"activities"`
	TotalCount  int           `json:"totalCount"`
	GeneratedAt time.Time     `json:"generatedAt"`
	HasMore     bool          `json:"hasMore"`
}

// ListActivitiesHandler serves the activity feed.
type ListActivitiesHandler struct {
	activityRepo activity.Repository
}

// NewListActivitiesHandler creates the activity feed handler.
func NewListActivitiesHandler(activityRepo activity.Repository) *ListActivitiesHandler {
	return &ListActivitiesHandler{activityRepo: activityRepo}
}

// Handle executes the listing.
func (h *ListActivitiesHandler) Handle(ctx context.Context, query ListActivitiesQuery) (*ListActivitiesResult, error) {
	limit, offset, err := normalizePage(query.Limit, query.Offset)
	if err != nil {
		return nil, shared.WrapError("query", "ListActivities", shared.ErrValidation, err.Error(), err)
	}

	activities, err := h.activityRepo.List(ctx, activity.Filter{
		UpcomingOnly: query.UpcomingOnly,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, shared.WrapError("query", "ListActivities", shared.ErrNotFound, "failed to list activities", err)
	}

	total, err := h.activityRepo.Count(ctx)
	if err != nil {
		total = len(activities)
	}

	dtos := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		dtos[i] = ActivityDTO{
			ID:           a.ID.String(),
			Title:        a.Title,
			Description:  a.Description,
			ActivityDate: a.ActivityDate.String(),
			DisplayDate:  a.DisplayDate(),
			ImageURL:     a.ImageURL,
		}
	}

	return &ListActivitiesResult{
		Activities:  dtos,
		TotalCount:  total,
		GeneratedAt: timeutil.Now(),
		HasMore:     query.Offset+len(activities) < total,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Events
// ─────────────────────────────────────────────────────────────────────────────

// EventDTO is the event shape the public API serves.
type EventDTO struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Place            string `json:"place,omitempty"`
	EventDate        string `json:"eventDate,omitempty"`
	ShortDescription string `json:"shortDescription,omitempty"`
	ImageURL         string `json:"imageUrl,omitempty"`
	Upcoming         bool   `json:"upcoming"`
}

// ListEventsQuery contains the parameters for an event listing.
type ListEventsQuery struct {
	Year         int
	UpcomingOnly bool
	Limit        int
	Offset       int
}

// ListEventsResult is the paged event listing.
type ListEventsResult struct {
	Events      []EventDTO `json:"events"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

// ListEventsHandler serves the events page.
type ListEventsHandler struct {
	eventRepo event.Repository
}

// NewListEventsHandler creates the events page handler.
func NewListEventsHandler(eventRepo event.Repository) *ListEventsHandler {
	return &ListEventsHandler{eventRepo: eventRepo}
}

// Handle executes the listing.
func (h *ListEventsHandler) Handle(ctx context.Context, query ListEventsQuery) (*ListEventsResult, error) {
	limit, offset, err := normalizePage(query.Limit, query.Offset)
	if err != nil {
		return nil, shared.WrapError("query", "ListEvents", shared.ErrValidation, err.Error(), err)
	}

	events, err := h.eventRepo.List(ctx, event.Filter{
		Year:         query.Year,
		UpcomingOnly: query.UpcomingOnly,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return nil, shared.WrapError("query", "ListEvents", shared.ErrNotFound, "failed to list events", err)
	}

	today := timeutil.Today()
	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = EventDTO{
			ID:               e.ID.String(),
			Title:            e.Title,
			Place:            e.Place,
			EventDate:        e.EventDate.String(),
			ShortDescription: e.ShortDescription,
			ImageURL:         e.ImageURL,
			Upcoming:         e.IsUpcoming(today),
		}
	}

	return &ListEventsResult{Events: dtos, GeneratedAt: timeutil.Now()}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Mobility
// ─────────────────────────────────────────────────────────────────────────────

// MobilityDTO is the placement shape the public API serves.
type MobilityDTO struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Direction       string `json:"direction"`
	ParticipantName string `json:"participantName,omitempty"`
	Institution     string `json:"institution,omitempty"`
	Country         string `json:"country,omitempty"`
	AcademicYear    string `json:"academicYear,omitempty"`
	StartDate       string `json:"startDate,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
}

// ListMobilityQuery contains the parameters for a placement listing.
type ListMobilityQuery struct {
	Type      string
	Direction string
	Limit     int
	Offset    int
}

// ListMobilityResult is the paged placement listing with its tally.
type ListMobilityResult struct {
	Programmes  []MobilityDTO  `json:"programmes"`
	Tally       mobility.Tally `json:"tally"`
	GeneratedAt time.Time      `json:"generatedAt"`
}

// ListMobilityHandler serves the mobility page.
type ListMobilityHandler struct {
	mobilityRepo mobility.Repository
}

// NewListMobilityHandler creates the mobility page handler.
func NewListMobilityHandler(mobilityRepo mobility.Repository) *ListMobilityHandler {
	return &ListMobilityHandler{mobilityRepo: mobilityRepo}
}

// Handle executes the listing.
func (h *ListMobilityHandler) Handle(ctx context.Context, query ListMobilityQuery) (*ListMobilityResult, error) {
	limit, offset, err := normalizePage(query.Limit, query.Offset)
	if err != nil {
		return nil, shared.WrapError("query", "ListMobility", shared.ErrValidation, err.Error(), err)
	}

	filter := mobility.Filter{Limit: limit, Offset: offset}
	if query.Type != "" {
		typ := mobility.Type(query.Type)
		if !typ.IsValid() {
			return nil, shared.ErrInvalidProgrammeType
		}
		filter.Type = typ
	}
	if query.Direction != "" {
		dir := mobility.Direction(query.Direction)
		if !dir.IsValid() {
			return nil, shared.ErrInvalidDirection
		}
		filter.Direction = dir
	}

	programmes, err := h.mobilityRepo.List(ctx, filter)
	if err != nil {
		return nil, shared.WrapError("query", "ListMobility", shared.ErrNotFound, "failed to list programmes", err)
	}

	dtos := make([]MobilityDTO, len(programmes))
	for i, p := range programmes {
		dtos[i] = MobilityDTO{
			ID:              p.ID.String(),
			Type:            p.Type.String(),
			Direction:       p.Direction.String(),
			ParticipantName: p.ParticipantName,
			Institution:     p.Institution,
			Country:         p.Country,
			AcademicYear:    p.AcademicYear,
			StartDate:       p.StartDate.String(),
			EndDate:         p.EndDate.String(),
		}
	}

	return &ListMobilityResult{
		Programmes:  dtos,
		Tally:       mobility.TallyOf(programmes),
		GeneratedAt: timeutil.Now(),
	}, nil
}
