package mcp

import (
	"context"
	"errors"
	"strconv"

	"github.com/claude/pintrack/internal/models"
	"github.com/claude/pintrack/internal/session"
	"github.com/claude/pintrack/internal/view"
	"github.com/mark3labs/mcp-go/mcp"
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List logged workouts in creation order, with pace (running) or speed (cycling)."),
	mcp.WithString("kind", mcp.Description("Only return workouts of this kind"), mcp.Enum("running", "cycling")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one workout by id, including how often it was viewed this session."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

var toolLogWorkout = mcp.NewTool("log_workout",
	mcp.WithDescription("Log a workout at a map position. Running needs cadence (steps/min); cycling needs elevation gain (m)."),
	mcp.WithNumber("lat", mcp.Required(), mcp.Description("Latitude of the pin")),
	mcp.WithNumber("lng", mcp.Required(), mcp.Description("Longitude of the pin")),
	mcp.WithString("type", mcp.Required(), mcp.Description("Workout type"), mcp.Enum("running", "cycling")),
	mcp.WithNumber("distance", mcp.Required(), mcp.Description("Distance in km")),
	mcp.WithNumber("duration", mcp.Required(), mcp.Description("Duration in minutes")),
	mcp.WithNumber("cadence", mcp.Description("Cadence in steps/min (running)")),
	mcp.WithNumber("elevation", mcp.Description("Elevation gain in m (cycling)")),
)

var toolSelectWorkout = mcp.NewTool("select_workout",
	mcp.WithDescription("Select a workout: counts a view and centres the map on it."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if kind := req.GetString("kind", ""); kind != "" {
		filtered := make([]view.WorkoutDetail, 0, len(workouts))
		for _, w := range workouts {
			if string(w.Kind) == kind {
				filtered = append(filtered, w)
			}
		}
		workouts = filtered
	}

	return jsonResult(workouts)
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	w, err := h.ds.GetWorkout(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(w)
}

func (h *handlers) logWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lat, err := req.RequireFloat("lat")
	if err != nil {
		return mcp.NewToolResultError("lat parameter is required"), nil
	}
	lng, err := req.RequireFloat("lng")
	if err != nil {
		return mcp.NewToolResultError("lng parameter is required"), nil
	}
	typ, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type parameter is required"), nil
	}
	distance, err := req.RequireFloat("distance")
	if err != nil {
		return mcp.NewToolResultError("distance parameter is required"), nil
	}
	duration, err := req.RequireFloat("duration")
	if err != nil {
		return mcp.NewToolResultError("duration parameter is required"), nil
	}

	v := session.FormValues{
		Type:     typ,
		Distance: formatNumber(distance),
		Duration: formatNumber(duration),
	}
	switch models.Kind(typ) {
	case models.KindRunning:
		cadence, err := req.RequireFloat("cadence")
		if err != nil {
			return mcp.NewToolResultError("cadence is required for running"), nil
		}
		v.Cadence = formatNumber(cadence)
	case models.KindCycling:
		elevation, err := req.RequireFloat("elevation")
		if err != nil {
			return mcp.NewToolResultError("elevation is required for cycling"), nil
		}
		v.Elevation = formatNumber(elevation)
	}

	w, err := h.ds.LogWorkout(ctx, models.Coordinates{Lat: lat, Lng: lng}, v)
	if err != nil {
		h.log.Warn("mcp log_workout", "error", err)
		return toolError(err), nil
	}
	return jsonResult(w)
}

func (h *handlers) selectWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	w, err := h.ds.SelectWorkout(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(w)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func toolError(err error) *mcp.CallToolResult {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return mcp.NewToolResultError("invalid input: " + ve.Error())
	case errors.Is(err, session.ErrWorkoutNotFound):
		return mcp.NewToolResultError("workout not found")
	}
	return mcp.NewToolResultError(err.Error())
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
