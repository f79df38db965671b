package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harshlagwal/Wanderlust-backend/internal/domain"
	"github.com/harshlagwal/Wanderlust-backend/internal/log"
	"github.com/harshlagwal/Wanderlust-backend/internal/metrics"
	"github.com/harshlagwal/Wanderlust-backend/internal/queue"
	"github.com/harshlagwal/Wanderlust-backend/internal/repo"
)

// tripReq deliberately keeps the numeric and payload fields untyped: the
// frontend sends numbers as strings, result as either an object or a
// stringified blob, and interests in whatever shape it likes.
type tripReq struct {
	UserEmail        string `json:"userEmail"`
	CurrentLocation  string `json:"currentLocation"`
	Destination      string `json:"destination"`
	GoingDestination string `json:"goingDestination"` // alias used by older frontends
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	Travelers        any    `json:"travelers"`
	Budget           any    `json:"budget"`
	Days             any    `json:"days"`
	Interests        any    `json:"interests"`
	Dietary          string `json:"dietary"`
	Result           any    `json:"result"`
	MapData          any    `json:"mapData"`
}

// SaveTrip godoc
// @Summary Save an AI-generated travel plan
// @Tags itinerary
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body tripReq true "trip"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/itinerary [post]
func (h *Handler) SaveTrip(c *gin.Context) {
	var in tripReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid json"})
		return
	}

	// token identity wins; the body field is a secondary source of truth
	email := authEmail(c)
	if email == "" {
		email = in.UserEmail
	}
	dest := in.Destination
	if dest == "" {
		dest = in.GoingDestination
	}

	log.Infof("[TRIP] save request for %s -> %s (result %s)", email, dest, describePayload(in.Result))

	// collect every missing/invalid field so one round-trip reports them all
	var bad []string
	if email == "" {
		bad = append(bad, "userEmail")
	}
	if in.CurrentLocation == "" {
		bad = append(bad, "currentLocation")
	}
	if dest == "" {
		bad = append(bad, "destination")
	}
	if in.Result == nil {
		bad = append(bad, "result")
	}
	days, ok := toNumber(in.Days)
	if !ok {
		bad = append(bad, "days (must be a number)")
	}
	budget, ok := toNumber(in.Budget)
	if !ok {
		bad = append(bad, "budget (must be a number)")
	}
	if len(bad) > 0 {
		log.Warnf("[TRIP] save failed, missing or invalid fields: %s", strings.Join(bad, ", "))
		c.JSON(http.StatusBadRequest, gin.H{
			"success":       false,
			"message":       "Invalid request data. Missing or invalid fields: " + strings.Join(bad, ", "),
			"missingFields": bad,
		})
		return
	}

	// a stringified result gets one parse attempt; the payload is opaque, so
	// an unparseable string is stored as-is rather than rejected
	result := in.Result
	if s, isStr := result.(string); isStr {
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err == nil {
			result = parsed
		} else {
			log.Warnf("[TRIP] result is not a valid JSON string, storing as is")
		}
	}

	it := &domain.Itinerary{
		UserEmail:       email,
		CurrentLocation: in.CurrentLocation,
		Destination:     dest,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		Travelers:       toTravelers(in.Travelers),
		Budget:          budget,
		Days:            days,
		Interests:       toStringList(in.Interests),
		Dietary:         in.Dietary,
		Result:          result,
		MapData:         in.MapData,
	}

	id, err := h.Store.SaveItinerary(c.Request.Context(), it)
	if err != nil {
		var ve *repo.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Database validation failed", "details": ve.Fields})
			return
		}
		log.Errorf("[TRIP] save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server Error while saving itinerary", "error": err.Error()})
		return
	}

	go h.Events.Publish(context.Background(), queue.Exchange, "trip.saved",
		queue.TripSaved{TripID: id, UserEmail: email, Destination: dest}, requestID(c))

	log.Infof("[TRIP] saved %s for %s", id.Hex(), email)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Trip saved successfully",
		"tripId":  id,
	})
}

// History godoc
// @Summary Fetch a user's saved trips, newest first
// @Tags itinerary
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Itinerary
// @Failure 500 {object} map[string]any
// @Router /api/itinerary/{email} [get]
func (h *Handler) History(c *gin.Context) {
	email := c.Param("email")
	log.Infof("[HISTORY] request for %s", email)

	trips, err := h.Store.ListItineraries(c.Request.Context(), email)
	if err != nil {
		log.Errorf("[HISTORY] fetch failed for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch trip history", "error": err.Error()})
		return
	}

	valid, skipped := filterSerializable(trips)
	if len(skipped) > 0 {
		metrics.CorruptTripsSkipped.Add(float64(len(skipped)))
		log.Warnf("[HISTORY] filtered %d corrupted trips for %s: %s; delete them manually from the database",
			len(skipped), email, joinIDs(skipped))
	}
	log.Infof("[HISTORY] returning %d trips for %s", len(valid), email)
	c.JSON(http.StatusOK, valid)
}

// filterSerializable keeps the records that survive JSON encoding and
// reports the ids of the ones that do not. One corrupt row must never take
// down the whole history response.
func filterSerializable(trips []domain.Itinerary) ([]domain.Itinerary, []primitive.ObjectID) {
	valid := make([]domain.Itinerary, 0, len(trips))
	var skipped []primitive.ObjectID
	for _, t := range trips {
		if _, err := json.Marshal(t); err != nil {
			skipped = append(skipped, t.ID)
			continue
		}
		valid = append(valid, t)
	}
	return valid, skipped
}

func joinIDs(ids []primitive.ObjectID) string {
	hex := make([]string, len(ids))
	for i, id := range ids {
		hex[i] = id.Hex()
	}
	return strings.Join(hex, ", ")
}

// describePayload keeps result blobs out of the logs.
func describePayload(v any) string {
	switch p := v.(type) {
	case nil:
		return "missing"
	case string:
		if len(p) > 100 {
			return "string[" + strings.TrimSpace(p[:20]) + "... truncated]"
		}
		return "string"
	default:
		return "object"
	}
}
