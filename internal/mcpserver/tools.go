// Package mcpserver exposes the data store as Model Context Protocol tools so
// assistants can read and plan weeks over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sadopc/timemanager/internal/logging"
	"github.com/sadopc/timemanager/internal/store"
)

// ToolInfo pairs a tool definition with its handler.
type ToolInfo struct {
	Tool    mcp.Tool
	Handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

type handler func(context.Context, mcp.CallToolRequest, *store.Store) (*mcp.CallToolResult, error)

var validate = validator.New()

// Tools returns every store operation as an MCP tool bound to s.
func Tools(s *store.Store, grid store.Grid, log *logging.Logger) []ToolInfo {
	if log == nil {
		log = logging.NewNop()
	}
	log = log.WithComponent("mcp")

	bind := func(tool mcp.Tool, h handler) ToolInfo {
		return ToolInfo{tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			res, err := h(ctx, req, s)
			if res != nil && res.IsError {
				log.Warnw("tool call failed", "tool", tool.Name)
			} else {
				log.Debugw("tool call", "tool", tool.Name)
			}
			return res, err
		}}
	}

	return []ToolInfo{
		bind(loadDataTool(), handleLoadData),
		bind(saveDataTool(), handleSaveData),
		bind(saveProjectsTool(), handleSaveProjects),
		bind(saveWeekTool(), handleSaveWeek),
		bind(saveTemplatesTool(), handleSaveTemplates),
		bind(getDataLocationTool(), handleGetDataLocation),
		bind(setDataLocationTool(), handleSetDataLocation),
		bind(resetDataLocationTool(), handleResetDataLocation),
		bind(summarizeWeekTool(), func(ctx context.Context, req mcp.CallToolRequest, s *store.Store) (*mcp.CallToolResult, error) {
			return handleSummarizeWeek(ctx, req, s, grid)
		}),
	}
}

// Tool definitions
func loadDataTool() mcp.Tool {
	return mcp.NewTool("load_data",
		mcp.WithDescription("Return the full data record: projects, weeks, templates and the weekly hour goal"),
	)
}

func saveDataTool() mcp.Tool {
	return mcp.NewTool("save_data",
		mcp.WithDescription("Replace the full data record and write it to disk"),
		mcp.WithString("data", mcp.Required(), mcp.Description("JSON object with projects, weeks, templates and optional weeklyHourGoal")),
	)
}

func saveProjectsTool() mcp.Tool {
	return mcp.NewTool("save_projects",
		mcp.WithDescription("Replace the project list. Blocks of removed projects are kept"),
		mcp.WithString("projects", mcp.Required(), mcp.Description("JSON array of projects")),
	)
}

func saveWeekTool() mcp.Tool {
	return mcp.NewTool("save_week",
		mcp.WithDescription("Insert or replace one week, matched by weekKey"),
		mcp.WithString("week", mcp.Required(), mcp.Description("JSON object with weekKey, startDate and blocks")),
	)
}

func saveTemplatesTool() mcp.Tool {
	return mcp.NewTool("save_templates",
		mcp.WithDescription("Replace the template list"),
		mcp.WithString("templates", mcp.Required(), mcp.Description("JSON array of templates")),
	)
}

func getDataLocationTool() mcp.Tool {
	return mcp.NewTool("get_data_location",
		mcp.WithDescription("Return the directory holding the active data file"),
	)
}

func setDataLocationTool() mcp.Tool {
	return mcp.NewTool("set_data_location",
		mcp.WithDescription("Move the data file to an existing, writable directory"),
		mcp.WithString("path", mcp.Required(), mcp.Description("Target directory")),
		mcp.WithBoolean("copy_existing", mcp.Description("Copy the current data file there unless one already exists")),
	)
}

func resetDataLocationTool() mcp.Tool {
	return mcp.NewTool("reset_data_location",
		mcp.WithDescription("Go back to the default data directory"),
		mcp.WithBoolean("copy_existing", mcp.Description("Copy the current data file there unless one already exists")),
	)
}

func summarizeWeekTool() mcp.Tool {
	return mcp.NewTool("summarize_week",
		mcp.WithDescription("Planned hours per project and charge code for one week"),
		mcp.WithString("week_key", mcp.Required(), mcp.Description("ISO week key, e.g. 2026-W42")),
	)
}

// Tool handlers
func handleLoadData(ctx context.Context, req mcp.CallToolRequest, s *store.Store) (*mcp.CallToolResult, error) {
	data, err := s.LoadAppData()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(data)
}

func handleSaveData(ctx context.Context, req mcp.CallToolRequest, s *store.Store) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := store.DecodeAppData([]byte(raw))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid data: %v", err)), nil
	}
	if err := s.SaveAppData(data); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved %d projects, %d weeks, %d templates",
		len(data.Projects), len(data.Weeks), len(data.Templates))), nil
}

func handleSaveProjects(ctx context.Context, req mcp.CallToolRequest, s *store.Store) (*mcp.CallToolResult, error) {
	var projects []store.Project
	if res := decodeArg(req, "projects", &projects); res != nil {
		return res, nil
	}
	for i := range projects {
		if err := validate.Struct(&projects[i]); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("project %d: %v", i, err)), nil
		}
	}
	if err := s.SaveProjects(projects); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved %d projects", len(projects))), nil
}

func handleSaveWeek(ctx context.Context, req mcp.CallToolRequest, s *store.Store) (*mcp.CallToolResult, error) {
	var week store.WeekData
	if res := decodeArg(req, "week", &week); res != nil {
		return res, nil
	}
	if err := validate.Struct(&week); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("week: %v", err)), nil
	}
	if _, err := store.ParseWeekKey(week.WeekKey); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("week: %v", err)), nil
	}
	if week.Blocks == nil {
		week.Blocks = []store.TimeBlock{}
	}
	if err := s.SaveWeek(week); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved week %s with %d blocks", week.WeekKey, len(week.Blocks))), nil
}

func handleSaveTemplates(ctx context.Context, req mcp.CallToolRequest, s *store.Store) (*mcp.CallToolResult, error) {
	var templates []store.Template
	if res := decodeArg(req, "templates", &templates); res != nil {
		return res, nil
	}
	for i := range templates {
		if err := validate.Struct(&templates[i]); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("template %d: %v", i, err)), nil
		}
		if templates[i].Blocks == nil {
			templates[i].Blocks = []store.TemplateBlock{}
		}
	}
	if err := s.SaveTemplates(templates); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Saved %d templates", len(templates))), nil
}

func handleGetDataLocation(ctx context.Context, req mcp.CallToolRequest, s *store.Store) (*mcp.CallToolResult, error) {
	dir, err := s.DataLocation()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(dir), nil
}

func handleSetDataLocation(ctx context.Context, req mcp.CallToolRequest, s *store.Store) (*mcp.CallToolResult, error) {
	dir, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	copyExisting := req.GetBool("copy_existing", false)
	if err := s.SetDataLocation(dir, copyExisting); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	now, _ := s.DataLocation()
	return mcp.NewToolResultText("Data location set to " + now), nil
}

func handleResetDataLocation(ctx context.Context, req mcp.CallToolRequest, s *store.Store) (*mcp.CallToolResult, error) {
	copyExisting := req.GetBool("copy_existing", false)
	if err := s.ResetToDefaultLocation(copyExisting); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	now, _ := s.DataLocation()
	return mcp.NewToolResultText("Data location reset to " + now), nil
}

func handleSummarizeWeek(ctx context.Context, req mcp.CallToolRequest, s *store.Store, grid store.Grid) (*mcp.CallToolResult, error) {
	weekKey, err := req.RequireString("week_key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	monday, err := store.ParseWeekKey(weekKey)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.LoadAppData()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	week, ok := data.FindWeek(weekKey)
	if !ok {
		week = store.NewWeek(monday)
	}
	return jsonResult(store.Summarize(data, week, grid))
}

// decodeArg unmarshals the JSON string argument name into v. It returns a
// tool error result when the argument is missing or malformed.
func decodeArg(req mcp.CallToolRequest, name string, v any) *mcp.CallToolResult {
	raw, err := req.RequireString(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid %s: %v", name, err))
	}
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
