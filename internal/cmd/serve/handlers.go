package serve

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/open-cli-collective/wikimacro/internal/version"
	"github.com/open-cli-collective/wikimacro/pkg/macro"
)

type renderRequest struct {
	Text     string            `json:"text" binding:"required"`
	Page     macro.PageContext `json:"page"`
	Markdown bool              `json:"markdown"`
}

type renderResponse struct {
	HTML     string   `json:"html"`
	Markdown string   `json:"markdown,omitempty"`
	Warnings []string `json:"warnings"`
}

func (service *Service) render(ctx *gin.Context) {
	var req renderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, NewErrorResponse(err))
		return
	}

	result, err := macro.NewExpander(service.env).Expand(ctx.Request.Context(), req.Text, req.Page)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, NewErrorResponse(err))
		return
	}

	resp := renderResponse{HTML: result.HTML(), Warnings: result.Warnings}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	if req.Markdown {
		resp.Markdown, err = macro.ToMarkdown(resp.HTML)
		if err != nil {
			err = fmt.Errorf("failed to convert to markdown: %w", err)
			ctx.JSON(http.StatusInternalServerError, NewErrorResponse(err))
			return
		}
	}

	ctx.JSON(http.StatusOK, resp)
}

type imageParseRequest struct {
	Args string `json:"args" binding:"required"`
}

func (service *Service) parseImage(ctx *gin.Context) {
	var req imageParseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, NewErrorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, macro.ExplainImage(req.Args))
}

type macroResponse struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (service *Service) listMacros(ctx *gin.Context) {
	registered := macro.RegisteredMacros()
	resp := make([]macroResponse, 0, len(registered))
	for _, mt := range registered {
		resp = append(resp, macroResponse{Name: mt.Name, Title: mt.Title, Description: mt.Description})
	}
	ctx.JSON(http.StatusOK, resp)
}

func (service *Service) healthz(ctx *gin.Context) {
	if service.health != nil {
		if err := service.health.Ping(ctx.Request.Context()); err != nil {
			err = fmt.Errorf("backend unavailable: %w", err)
			ctx.JSON(http.StatusServiceUnavailable, NewErrorResponse(err))
			return
		}
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get().Version})
}
