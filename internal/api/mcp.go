package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/pathcraft/internal/career"
	"github.com/kalambet/pathcraft/internal/dashboard"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Controller *dashboard.Controller
	Metrics    *Metrics // optional
}

// NewMCPServer creates an MCP server exposing the career analysis form as
// tools and its current state as resources.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"pathcraft",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("pathcraft: career profile analysis with course, video, job and roadmap recommendations."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("set_profile_field",
			mcp.WithDescription("Set one field of the career profile form, leaving the others unchanged."),
			mcp.WithString("key",
				mcp.Description("Field key"),
				mcp.Enum(career.FieldRole, career.FieldSkills, career.FieldSkillGaps, career.FieldCareerAmbitions, career.FieldLanguage),
				mcp.Required(),
			),
			mcp.WithString("value", mcp.Description("New value"), mcp.Required()),
		),
		mcpSetProfileField(deps),
	)

	s.AddTool(
		mcp.NewTool("analyze_career",
			mcp.WithDescription("Submit the career profile and return recommended courses, videos, jobs and a roadmap. Any field given here is applied to the form first."),
			mcp.WithString(career.FieldRole, mcp.Description("Current role")),
			mcp.WithString(career.FieldSkills, mcp.Description("Core skills")),
			mcp.WithString(career.FieldSkillGaps, mcp.Description("Skills to develop")),
			mcp.WithString(career.FieldCareerAmbitions, mcp.Description("Career aspirations")),
			mcp.WithString(career.FieldLanguage, mcp.Description("Preferred language")),
		),
		mcpAnalyzeCareer(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"career://profile",
			"Career Profile",
			mcp.WithResourceDescription("Current contents of the career profile form as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"career://recommendations",
			"Recommendations",
			mcp.WithResourceDescription("Latest recommendations as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecommendations(deps),
	)

	return s
}

func mcpSetProfileField(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		key, err := req.RequireString("key")
		if err != nil {
			return mcpError("key is required"), nil
		}
		value, err := req.RequireString("value")
		if err != nil {
			return mcpError("value is required"), nil
		}

		if err := deps.Controller.SetField(key, value); err != nil {
			return mcpError(fmt.Sprintf("failed to set field: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Set %s = %s", key, value)), nil
	}
}

func mcpAnalyzeCareer(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		for _, f := range career.Fields {
			if v := req.GetString(f.Key, ""); v != "" {
				if err := deps.Controller.SetField(f.Key, v); err != nil {
					return mcpError(fmt.Sprintf("failed to set %s: %v", f.Key, err)), nil
				}
			}
		}

		recs, err := deps.Controller.Submit(ctx)
		deps.Metrics.ObserveSubmission(err)
		if err != nil {
			var missing *career.MissingFieldsError
			switch {
			case errors.As(err, &missing):
				return mcpError(err.Error()), nil
			case errors.Is(err, dashboard.ErrSubmitInProgress):
				return mcpError("an analysis is already running; try again shortly"), nil
			default:
				return mcpError(fmt.Sprintf("%s (%v)", dashboard.FailureMessage, err)), nil
			}
		}

		b, err := json.Marshal(recs)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal recommendations: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceProfile(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(req.Params.URI, deps.Controller.View().Profile)
	}
}

func mcpResourceRecommendations(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonResource(req.Params.URI, deps.Controller.View().Recommendations)
	}
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
