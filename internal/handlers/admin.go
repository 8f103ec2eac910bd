// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the related content admin.
// Handlers are grouped by concern and receive their dependencies through
// the handler struct.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"relatedcontent/internal/admin"
	"relatedcontent/internal/middleware"
	"relatedcontent/internal/models"
	"relatedcontent/internal/render"
	"relatedcontent/internal/session"
	"relatedcontent/internal/store"
)

// Admin groups the admin panel handlers and their dependencies.
type Admin struct {
	renderer     *render.Renderer
	sessions     *session.Store
	types        *store.RelatedTypeStore
	contentTypes *store.ContentTypeStore
	links        *store.RelatedContentStore
	inlines      *admin.InlineRegistry
	devMode      bool
}

// NewAdmin creates the admin handler group. In devMode configuration
// errors are shown with their cause.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, types *store.RelatedTypeStore, contentTypes *store.ContentTypeStore, links *store.RelatedContentStore, inlines *admin.InlineRegistry, devMode bool) *Admin {
	return &Admin{
		renderer:     renderer,
		sessions:     sessions,
		types:        types,
		contentTypes: contentTypes,
		links:        links,
		inlines:      inlines,
		devMode:      devMode,
	}
}

// --- Related types ---

// RelatedTypesList renders the related types with their link counts.
func (a *Admin) RelatedTypesList(w http.ResponseWriter, r *http.Request) {
	types, err := a.types.List(r.Context())
	if err != nil {
		slog.Error("list related types failed", "error", err)
	}

	a.renderer.Page(w, r, "related_types_list", &render.PageData{
		Title:   "Related types",
		Section: "related_type",
		Flashes: a.flashes(r),
		Data:    map[string]any{"Types": types},
	})
}

// RelatedTypeNew renders the empty related type form.
func (a *Admin) RelatedTypeNew(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "related_type_form", &render.PageData{
		Title:   "Add related type",
		Section: "related_type",
		Data:    map[string]any{"IsNew": true},
	})
}

// RelatedTypeCreate handles the new related type form submission.
func (a *Admin) RelatedTypeCreate(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.FormValue("title"))

	formErr := func(msg string) {
		a.renderer.Page(w, r, "related_type_form", &render.PageData{
			Title:   "Add related type",
			Section: "related_type",
			Data: map[string]any{
				"IsNew": true,
				"Error": msg,
				"Item":  &models.RelatedType{Title: title},
			},
		})
	}

	if msg := validateRelatedType(title); msg != "" {
		formErr(msg)
		return
	}

	created, err := a.types.Create(r.Context(), title)
	if errors.Is(err, store.ErrDuplicate) {
		formErr("A related type with this title already exists.")
		return
	}
	if err != nil {
		slog.Error("create related type failed", "error", err)
		formErr("Failed to create related type.")
		return
	}

	slog.Info("related type created", "id", created.ID, "title", created.Title)
	a.setFlash(r, "Related type \""+created.Title+"\" was added.")
	http.Redirect(w, r, "/admin/related-types", http.StatusSeeOther)
}

// RelatedTypeEdit renders the edit form of a related type.
func (a *Admin) RelatedTypeEdit(w http.ResponseWriter, r *http.Request) {
	item, ok := a.loadRelatedType(w, r)
	if !ok {
		return
	}

	a.renderer.Page(w, r, "related_type_form", &render.PageData{
		Title:   "Change related type",
		Section: "related_type",
		Data:    map[string]any{"IsNew": false, "Item": item},
	})
}

// RelatedTypeUpdate handles the edit form submission.
func (a *Admin) RelatedTypeUpdate(w http.ResponseWriter, r *http.Request) {
	item, ok := a.loadRelatedType(w, r)
	if !ok {
		return
	}

	item.Title = strings.TrimSpace(r.FormValue("title"))

	formErr := func(msg string) {
		a.renderer.Page(w, r, "related_type_form", &render.PageData{
			Title:   "Change related type",
			Section: "related_type",
			Data:    map[string]any{"IsNew": false, "Error": msg, "Item": item},
		})
	}

	if msg := validateRelatedType(item.Title); msg != "" {
		formErr(msg)
		return
	}

	err := a.types.Update(r.Context(), item.ID, item.Title)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		formErr("A related type with this title already exists.")
		return
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	case err != nil:
		slog.Error("update related type failed", "error", err)
		formErr("Failed to update related type.")
		return
	}

	a.setFlash(r, "Related type \""+item.Title+"\" was changed.")
	http.Redirect(w, r, "/admin/related-types", http.StatusSeeOther)
}

// RelatedTypeDelete deletes a related type unless links still use it.
func (a *Admin) RelatedTypeDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	err = a.types.Delete(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrInUse):
		types, listErr := a.types.List(r.Context())
		if listErr != nil {
			slog.Error("list related types failed", "error", listErr)
		}
		a.renderer.PageStatus(w, r, http.StatusConflict, "related_types_list", &render.PageData{
			Title:   "Related types",
			Section: "related_type",
			Data: map[string]any{
				"Types": types,
				"Error": "This related type is still used by related content and cannot be deleted.",
			},
		})
		return
	case err != nil:
		slog.Error("delete related type failed", "error", err)
	default:
		a.setFlash(r, "Related type was deleted.")
	}

	http.Redirect(w, r, "/admin/related-types", http.StatusSeeOther)
}

// loadRelatedType resolves the {id} URL parameter, writing 400 or 404 when
// it does not name a related type.
func (a *Admin) loadRelatedType(w http.ResponseWriter, r *http.Request) (*models.RelatedType, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return nil, false
	}

	item, err := a.types.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find related type failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if item == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return nil, false
	}
	return item, true
}

// --- Flash messages ---

func (a *Admin) setFlash(r *http.Request, msg string) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || a.sessions == nil {
		return
	}
	sess.Flash = msg
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Warn("set flash failed", "error", err)
	}
}

func (a *Admin) flashes(r *http.Request) []render.Flash {
	if a.sessions == nil {
		return nil
	}
	msg := a.sessions.PopFlash(r.Context(), r, middleware.SessionFromCtx(r.Context()))
	if msg == "" {
		return nil
	}
	return []render.Flash{{Type: "success", Message: msg}}
}
