package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/instagrid/internal/aifill"
	"github.com/nfrund/instagrid/internal/domain"
	"github.com/nfrund/instagrid/internal/export"
	"github.com/nfrund/instagrid/internal/ingest"
	"github.com/nfrund/instagrid/internal/live"
	"github.com/nfrund/instagrid/internal/middleware"
	"github.com/nfrund/instagrid/internal/mockup"
	"github.com/nfrund/instagrid/internal/modules/planner/view"
	"github.com/nfrund/instagrid/internal/rendering"
	"github.com/nfrund/instagrid/internal/resource"
	gview "github.com/nfrund/instagrid/internal/view"
	"github.com/nfrund/instagrid/internal/workspace"
	"github.com/nfrund/instagrid/web/src/templates/layouts"
)

const sessionKeyClean = "clean"

// Handler serves the planner page, its fragments and its mutations.
type Handler struct {
	pool       *resource.Pool
	ingestor   *ingest.Ingestor
	ai         *aifill.Service
	exporter   *export.Exporter
	renderer   rendering.Renderer
	hub        *live.Hub
	validate   *requestValidator
	maxUpload  int64
	exportName string
}

// NewHandler creates a Handler from the module dependencies.
func NewHandler(deps Dependencies) *Handler {
	h := &Handler{
		pool:      deps.Pool,
		ingestor:  deps.Ingestor,
		ai:        deps.AI,
		exporter:  deps.Exporter,
		renderer:  deps.Renderer,
		hub:       deps.Hub,
		validate:  newRequestValidator(),
		maxUpload: 25 << 20,
	}
	if deps.Config != nil {
		h.maxUpload = deps.Config.MaxUploadBytes
		h.exportName = deps.Config.ExportFileName
	}
	return h
}

// getWorkspace is a helper to retrieve the workspace resolved by the
// Workspace middleware.
func getWorkspace(c echo.Context) (*workspace.Workspace, error) {
	ws, ok := middleware.WorkspaceFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Workspace unavailable")
	}
	return ws, nil
}

// bind binds and validates a request DTO.
func (h *Handler) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format.")
	}
	if err := h.validate.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func cleanMode(c echo.Context) bool {
	sess, _ := session.Get(middleware.WorkspaceSessionName, c)
	if sess == nil {
		return false
	}
	clean, _ := sess.Values[sessionKeyClean].(bool)
	return clean
}

func (h *Handler) data(c echo.Context, ws *workspace.Workspace) view.Data {
	return view.Data{
		Snapshot:     ws.Snapshot(),
		Clean:        cleanMode(c),
		AIConfigured: h.ai.Configured(),
		ExportName:   h.exportName,
	}
}

// respond re-renders the whole app for htmx and redirects plain form posts
// back to the page.
func (h *Handler) respond(c echo.Context, ws *workspace.Workspace) error {
	if !isHTMX(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return h.renderer.RenderPage(c, http.StatusOK, view.App(h.data(c, ws)))
}

// respondPreview re-renders only the mockup so the focused input survives.
func (h *Handler) respondPreview(c echo.Context, ws *workspace.Workspace) error {
	if !isHTMX(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return h.renderer.RenderPage(c, http.StatusOK, view.Preview(h.data(c, ws)))
}

// checkSizes rejects files above the upload limit.
func (h *Handler) checkSizes(files ...*multipart.FileHeader) error {
	for _, f := range files {
		if h.maxUpload > 0 && f.Size > h.maxUpload {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File size of %d bytes exceeds the limit of %d bytes", f.Size, h.maxUpload))
		}
	}
	return nil
}

// optionalFile returns the "file" form field, or nil when none was sent.
func optionalFile(c echo.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid upload.")
	}
	return fh, nil
}

// Page renders the full planner page.
func (h *Handler) Page(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	flash := gview.GetFlashData(c)
	page := layouts.Base("Planner", flash, view.App(h.data(c, ws)))
	return h.renderer.RenderPage(c, http.StatusOK, page)
}

// AppFragment renders the swappable app container.
func (h *Handler) AppFragment(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, view.App(h.data(c, ws)))
}

// PreviewFragment renders the mockup only.
func (h *Handler) PreviewFragment(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, view.Preview(h.data(c, ws)))
}

// AddImages stages every file of the "files" field in selection order.
func (h *Handler) AddImages(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	logger := middleware.FromContext(c.Request().Context())

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid upload.")
	}
	files := form.File["files"]
	if err := h.checkSizes(files...); err != nil {
		return err
	}

	n, err := h.ingestor.Images(c.Request().Context(), ws, files)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store images").SetInternal(err)
	}
	logger.Info("Images staged", "count", n)
	return h.respond(c, ws)
}

// RemoveImage drops one staged image.
func (h *Handler) RemoveImage(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	ws.RemoveImage(c.Param("id"))
	return h.respond(c, ws)
}

// ClearImages empties the grid. The confirmation happens client side.
func (h *Handler) ClearImages(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	ws.ClearAll()
	return h.respond(c, ws)
}

// AIFill generates one image. Configuration and generation failures are
// shown on the workspace error line and answered like a success.
func (h *Handler) AIFill(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	var req AIFillRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	err = h.ai.Fill(c.Request().Context(), ws, req.Style)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrGenerationInProgress):
		const msg = "An image is already being generated."
		if !isHTMX(c) {
			gview.SetFlashError(c, msg)
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return echo.NewHTTPError(http.StatusConflict, msg)
	case errors.Is(err, domain.ErrConfigurationMissing), errors.Is(err, domain.ErrGenerationFailed):
		middleware.FromContext(c.Request().Context()).Warn("AI fill did not produce an image", "error", err)
	default:
		return err
	}
	return h.respond(c, ws)
}

// SetSpacing selects a spacing preset.
func (h *Handler) SetSpacing(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	var req SpacingRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	ws.SetSpacing(domain.GridSpacing(req.Spacing))
	return h.respond(c, ws)
}

// SetProfileField replaces one profile text field.
func (h *Handler) SetProfileField(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	var req ProfileFieldRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	ws.SetProfileField(domain.ProfileField(req.Field), req.Value)
	return h.respondPreview(c, ws)
}

// SetAvatar replaces the avatar. Submitting no file changes nothing.
func (h *Handler) SetAvatar(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	fh, err := optionalFile(c)
	if err != nil {
		return err
	}
	if fh != nil {
		if err := h.checkSizes(fh); err != nil {
			return err
		}
		if err := h.ingestor.Avatar(c.Request().Context(), ws, fh); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store avatar").SetInternal(err)
		}
	}
	return h.respond(c, ws)
}

// SetHighlightCover replaces the cover of one highlight.
func (h *Handler) SetHighlightCover(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	var req HighlightRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	fh, err := optionalFile(c)
	if err != nil {
		return err
	}
	if fh != nil {
		if err := h.checkSizes(fh); err != nil {
			return err
		}
		if err := h.ingestor.HighlightCover(c.Request().Context(), ws, req.Index, fh); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store cover").SetInternal(err)
		}
	}
	return h.respond(c, ws)
}

// SetHighlightTitle renames one highlight.
func (h *Handler) SetHighlightTitle(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	var req HighlightTitleRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	ws.SetHighlightTitle(req.Index, req.Title)
	return h.respondPreview(c, ws)
}

// SetMode toggles the visitor preview for this browser session.
func (h *Handler) SetMode(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	var req ModeRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	sess, err := session.Get(middleware.WorkspaceSessionName, c)
	if sess == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Session unavailable").SetInternal(err)
	}
	sess.Values[sessionKeyClean] = req.Clean
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return err
	}
	return h.respond(c, ws)
}

// Export downloads the mockup as a PNG. An unknown target is reported as a
// notice rather than an error page.
func (h *Handler) Export(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	var req ExportRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if req.Target == "" {
		req.Target = mockup.TargetComposite
	}

	art, err := h.exporter.Export(c.Request().Context(), ws.Snapshot(), req.Target, req.Name)
	if errors.Is(err, domain.ErrExportTargetMissing) {
		middleware.FromContext(c.Request().Context()).Warn("Export target missing", "target", req.Target)
		if isHTMX(c) {
			trigger, _ := json.Marshal(map[string]string{"notice": domain.MsgExportTargetMissing})
			c.Response().Header().Set("HX-Trigger", string(trigger))
			return c.NoContent(http.StatusNotFound)
		}
		gview.SetFlashNotice(c, domain.MsgExportTargetMissing)
		return c.Redirect(http.StatusSeeOther, "/")
	}
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": art.FileName}))
	return c.Blob(http.StatusOK, art.ContentType, art.Data)
}

// Resource streams the bytes behind a handle, but only handles the caller's
// own workspace references.
func (h *Handler) Resource(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	logger := middleware.FromContext(c.Request().Context())

	handle := domain.ResourceHandle(c.Param("handle"))
	if handle.IsZero() || !ws.References(handle) {
		return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	}

	rc, res, err := h.pool.Open(c.Request().Context(), handle)
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "Resource not found")
	}
	if err != nil {
		logger.Error("Failed to open resource", "handle", handle, "error", err)
		return err
	}
	defer rc.Close()

	// Handles are never reused, so their bytes never change.
	c.Response().Header().Set("Cache-Control", "private, max-age=86400, immutable")
	return c.Stream(http.StatusOK, res.MIMEType, rc)
}

// Live upgrades to a websocket that announces workspace changes.
func (h *Handler) Live(c echo.Context) error {
	ws, err := getWorkspace(c)
	if err != nil {
		return err
	}
	// Serve writes its own response, including upgrade failures.
	_ = h.hub.Serve(c.Response(), c.Request(), ws.ID())
	return nil
}
