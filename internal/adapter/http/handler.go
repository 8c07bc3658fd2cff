package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resume-builder/internal/apierrors"
	"resume-builder/internal/editor"
	"resume-builder/internal/export"
	"resume-builder/internal/model"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/ai"
)

type Handler struct {
	ws       *usecase.Workspace
	gatherer prometheus.Gatherer
}

func NewHandler(ws *usecase.Workspace, gatherer prometheus.Gatherer) *Handler {
	return &Handler{ws: ws, gatherer: gatherer}
}

// NewApp builds the fiber app with the error handler, middleware and every
// route registered.
func NewApp(h *Handler, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		BodyLimit:    8 * 1024 * 1024,
	})
	app.Use(recover.New())
	if accessLog {
		app.Use(logger.New())
	}
	h.Register(app)
	return app
}

func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	if h.gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	app.Get("/themes", h.ListThemes)
	app.Get("/palette", h.Palette)
	app.Get("/templates", h.Templates)
	app.Post("/ai/generate", h.Generate)

	docs := app.Group("/documents")
	docs.Post("/", h.CreateDocument)
	docs.Get("/", h.ListDocuments)
	docs.Get("/:id", h.GetDocument)
	docs.Put("/:id", h.UpdateDocument)
	docs.Delete("/:id", h.DeleteDocument)
	docs.Post("/:id/commands", h.Dispatch)
	docs.Post("/:id/undo", h.Undo)
	docs.Post("/:id/redo", h.Redo)
	docs.Get("/:id/preview", h.Preview)
	docs.Get("/:id/print", h.Print)
	docs.Get("/:id/export.json", h.ExportJSON)
	docs.Post("/:id/import", h.Import)
	docs.Get("/:id/export.pdf", h.ExportPDF)
	docs.Post("/:id/ai/edit", h.EditSection)
	docs.Delete("/:id/ai/edit", h.CancelEdit)
	docs.Post("/:id/ats", h.AnalyzeATS)
}

// ErrorHandler writes every error as {code, error}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(apierrors.DefinedError{Code: fe.Code, Err: fe.Message})
	}
	de := apierrors.FromError(err)
	if de.StatusCode >= fiber.StatusInternalServerError {
		slog.Error("Request failed", "method", c.Method(), "path", c.Path(), "err", err)
	}
	return c.Status(de.StatusCode).JSON(de)
}

func documentID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apierrors.ErrInvalidID
	}
	return id, nil
}

// decodeDocument checks raw against the document format and decodes it.
func decodeDocument(raw json.RawMessage) (*model.Document, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if err := model.ValidateJSON(raw); err != nil {
		return nil, err
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apierrors.ErrBadRequest.WithDetails(err.Error())
	}
	return &doc, nil
}

type createReq struct {
	OwnerID string          `json:"ownerId"`
	Title   string          `json:"title"`
	ThemeID string          `json:"themeId"`
	Seed    *model.Resume   `json:"seed"`
	Content json.RawMessage `json:"content"`
}

func (h *Handler) CreateDocument(c *fiber.Ctx) error {
	var req createReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apierrors.ErrBadRequest
		}
	}
	owner := uuid.Nil
	if req.OwnerID != "" {
		id, err := uuid.Parse(req.OwnerID)
		if err != nil {
			return apierrors.ErrBadRequest.WithDetails("invalid ownerId")
		}
		owner = id
	}
	content, err := decodeDocument(req.Content)
	if err != nil {
		return err
	}

	rec, err := h.ws.Create(c.UserContext(), usecase.CreateInput{
		OwnerID: owner,
		Title:   req.Title,
		ThemeID: req.ThemeID,
		Seed:    req.Seed,
		Content: content,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *Handler) ListDocuments(c *fiber.Ctx) error {
	owner, err := uuid.Parse(c.Query("owner"))
	if err != nil {
		return apierrors.ErrBadRequest.WithDetails("owner query parameter must be a uuid")
	}
	list, err := h.ws.List(c.UserContext(), owner)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": list})
}

func (h *Handler) GetDocument(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	rec, err := h.ws.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

type updateReq struct {
	Title   string          `json:"title"`
	ThemeID string          `json:"themeId"`
	Content json.RawMessage `json:"content"`
}

func (h *Handler) UpdateDocument(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	var req updateReq
	if err := c.BodyParser(&req); err != nil {
		return apierrors.ErrBadRequest
	}
	content, err := decodeDocument(req.Content)
	if err != nil {
		return err
	}
	rec, err := h.ws.Update(c.UserContext(), id, usecase.UpdateInput{Content: content, ThemeID: req.ThemeID, Title: req.Title})
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

func (h *Handler) DeleteDocument(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	if err := h.ws.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Dispatch(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	cmd, err := editor.DecodeCommand(c.Body())
	if err != nil {
		if de := apierrors.FromError(err); de.Code != apierrors.ErrInternal.Code {
			return de
		}
		return apierrors.ErrInvalidCommand.WithFormattedMessage(err.Error())
	}
	doc, err := h.ws.Dispatch(c.UserContext(), id, cmd)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"document": doc})
}

func (h *Handler) Undo(c *fiber.Ctx) error {
	return h.travel(c, h.ws.Undo)
}

func (h *Handler) Redo(c *fiber.Ctx) error {
	return h.travel(c, h.ws.Redo)
}

// travel runs an undo or redo step. An empty history is not an error; the
// current document comes back unchanged.
func (h *Handler) travel(c *fiber.Ctx, step func(context.Context, uuid.UUID) (*model.Document, error)) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	doc, err := step(c.UserContext(), id)
	if err != nil && !errors.Is(err, editor.ErrNoChange) {
		return err
	}
	return c.JSON(fiber.Map{"document": doc, "changed": err == nil})
}

func (h *Handler) Preview(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	html, err := h.ws.Preview(c.UserContext(), id, c.Query("theme"))
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

func (h *Handler) Print(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	page, err := h.ws.PrintView(c.UserContext(), id, c.Query("theme"), c.QueryBool("autoprint", true))
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.SendString(page)
}

func sendFile(c *fiber.Ctx, f *export.File) error {
	c.Attachment(f.Filename)
	c.Set(fiber.HeaderContentType, f.ContentType)
	return c.Send(f.Data)
}

func (h *Handler) ExportJSON(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	f, err := h.ws.ExportJSON(c.UserContext(), id)
	if err != nil {
		return err
	}
	return sendFile(c, f)
}

func (h *Handler) Import(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	raw := c.Body()
	if fh, ferr := c.FormFile("file"); ferr == nil {
		f, err := fh.Open()
		if err != nil {
			return apierrors.ErrBadRequest
		}
		defer f.Close()
		if raw, err = io.ReadAll(f); err != nil {
			return apierrors.ErrBadRequest
		}
	}
	doc, err := h.ws.Import(c.UserContext(), id, raw)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"document": doc})
}

func (h *Handler) ExportPDF(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	f, err := h.ws.ExportPDF(c.UserContext(), id, c.Query("theme"))
	if err != nil {
		return err
	}
	return sendFile(c, f)
}

type paletteItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	NodeType    string `json:"nodeType"`
}

func (h *Handler) Palette(c *fiber.Ctx) error {
	results := editor.FilterCommands(editor.DefaultCommands(), c.Query("q"))
	items := make([]paletteItem, 0, len(results))
	for _, r := range results {
		items = append(items, paletteItem{ID: r.ID, Title: r.Title, Description: r.Description, NodeType: r.NodeType})
	}
	return c.JSON(fiber.Map{"query": c.Query("q"), "results": items})
}

func (h *Handler) ListThemes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.ws.Themes().List()})
}

func (h *Handler) EditSection(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	var req usecase.EditInput
	if err := c.BodyParser(&req); err != nil {
		return apierrors.ErrBadRequest
	}
	if req.Instruction == "" {
		return apierrors.ErrBadRequest.WithDetails("instruction is required")
	}
	doc, err := h.ws.EditSection(c.UserContext(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"document": doc})
}

func (h *Handler) CancelEdit(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	canceled, err := h.ws.CancelEdit(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"canceled": canceled})
}

type generateReq struct {
	Prompt string `json:"prompt"`
}

func (h *Handler) Generate(c *fiber.Ctx) error {
	var req generateReq
	if err := c.BodyParser(&req); err != nil || req.Prompt == "" {
		return apierrors.ErrBadRequest.WithDetails("prompt is required")
	}
	start := time.Now()
	html, err := h.ws.Generate(c.UserContext(), req.Prompt)
	if err != nil {
		return err
	}
	slog.Debug("Generated content", "bytes", len(html), "duration", time.Since(start))
	return c.JSON(fiber.Map{"html": html})
}

func (h *Handler) AnalyzeATS(c *fiber.Ctx) error {
	id, err := documentID(c)
	if err != nil {
		return err
	}
	report, err := h.ws.AnalyzeATS(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *Handler) Templates(c *fiber.Ctx) error {
	q := ai.TemplateQuery{
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 20),
		Author: c.Query("author"),
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	page, err := h.ws.Templates(c.UserContext(), q)
	if err != nil {
		return err
	}
	c.Set("X-Total-Count", strconv.Itoa(page.Metadata.Total))
	return c.JSON(page)
}
