package handlers

import (
	"errors"
	"strings"

	"campgo/internal/apperr"
	applog "campgo/internal/log"
	"campgo/internal/media"

	"github.com/gofiber/fiber/v2"
)

type UploadHandler struct {
	Media media.Store
}

// POST /api/upload (multipart field "file")
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.Validation("file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return apperr.Internal(err, "open upload")
	}
	defer f.Close()

	img, err := h.Media.Upload(c.UserContext(), userID(c), fh.Filename, f)
	if err != nil {
		if errors.Is(err, media.ErrBadName) {
			applog.Security(c, "upload.reject", map[string]any{"filename": fh.Filename})
			return apperr.Validation("%s", err.Error())
		}
		return apperr.Internal(err, "store upload")
	}
	applog.Audit(c, "upload.create", map[string]any{"public_id": img.PublicID, "size": fh.Size})
	return created(c, "Uploaded", img)
}

// DELETE /api/upload/* (the public id contains slashes). Users may only
// delete files under their own upload folder; admins may delete any upload.
func (h *UploadHandler) Delete(c *fiber.Ctx) error {
	publicID := c.Params("*")
	if !strings.HasPrefix(publicID, "uploads/") {
		applog.Security(c, "media.delete.block", map[string]any{"public_id": publicID})
		return apperr.Validation("invalid public id")
	}
	if p := principal(c); !p.IsAdmin() && media.Folder(publicID) != p.UserID {
		applog.Security(c, "media.delete.forbidden", map[string]any{"public_id": publicID})
		return apperr.Forbidden("not your upload")
	}
	if err := h.Media.Delete(c.UserContext(), publicID); err != nil {
		if errors.Is(err, media.ErrBadName) {
			applog.Security(c, "media.traversal.block", map[string]any{"public_id": publicID})
			return apperr.Validation("invalid public id")
		}
		return apperr.Internal(err, "delete upload")
	}
	applog.Audit(c, "upload.delete", map[string]any{"public_id": publicID})
	return ok(c, "Deleted", nil)
}
