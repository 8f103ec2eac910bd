// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"relatedcontent/internal/admin"
	"relatedcontent/internal/models"
	"relatedcontent/internal/render"
	"relatedcontent/internal/store"
)

// source is the object whose related content is edited.
type source struct {
	ct   *models.ContentType
	obj  render.ObjectView
	ref  models.GenericRef
	path string
}

// ObjectRelated renders the related content inline of a source object.
func (a *Admin) ObjectRelated(w http.ResponseWriter, r *http.Request) {
	src, ok := a.loadSource(w, r)
	if !ok {
		return
	}

	in, err := a.inlines.Inline(r.Context(), src.ct.Model)
	if err != nil {
		a.inlineError(w, r, err)
		return
	}

	links, err := a.links.ListBySource(r.Context(), src.ref)
	if err != nil {
		slog.Error("list related content failed", "source", src.path, "error", err)
		a.renderer.Error(w, r, http.StatusInternalServerError, "Could not load related content.", "")
		return
	}
	a.fillDestinationTitles(r.Context(), links)

	a.renderObject(w, r, http.StatusOK, src, in.Formset(links), a.flashes(r))
}

// ObjectRelatedSave validates the submitted inline and replaces the source
// object's links with the result.
func (a *Admin) ObjectRelatedSave(w http.ResponseWriter, r *http.Request) {
	src, ok := a.loadSource(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	in, err := a.inlines.Inline(r.Context(), src.ct.Model)
	if err != nil {
		a.inlineError(w, r, err)
		return
	}

	fs, links, err := in.Bind(r.Context(), r.PostForm, a.contentTypes)
	if err != nil {
		slog.Error("bind related content failed", "source", src.path, "error", err)
		a.renderer.Error(w, r, http.StatusInternalServerError, "Could not validate related content.", "")
		return
	}
	if !fs.Valid() {
		a.renderObject(w, r, http.StatusOK, src, fs, nil)
		return
	}

	err = a.links.ReplaceForSource(r.Context(), src.ref, links)
	if errors.Is(err, store.ErrMissingReference) {
		// A referenced type or content type disappeared mid-edit.
		a.renderObject(w, r, http.StatusConflict, src, fs, []render.Flash{{
			Type:    "error",
			Message: "A selected related type or content type no longer exists. Reload the page and try again.",
		}})
		return
	}
	if err != nil {
		slog.Error("save related content failed", "source", src.path, "error", err)
		a.renderer.Error(w, r, http.StatusInternalServerError, "Could not save related content.", "")
		return
	}

	slog.Info("related content saved", "source", src.path, "links", len(links))
	a.setFlash(r, "Related content was saved.")
	http.Redirect(w, r, src.path, http.StatusSeeOther)
}

// ObjectRelatedClear removes every link of a source object.
func (a *Admin) ObjectRelatedClear(w http.ResponseWriter, r *http.Request) {
	src, ok := a.loadSource(w, r)
	if !ok {
		return
	}

	n, err := a.links.DeleteBySource(r.Context(), src.ref)
	if err != nil {
		slog.Error("clear related content failed", "source", src.path, "error", err)
		a.renderer.Error(w, r, http.StatusInternalServerError, "Could not remove related content.", "")
		return
	}

	slog.Info("related content cleared", "source", src.path, "links", n)
	a.setFlash(r, "Related content was removed.")
	http.Redirect(w, r, src.path, http.StatusSeeOther)
}

func (a *Admin) renderObject(w http.ResponseWriter, r *http.Request, status int, src *source, fs *admin.Formset, flashes []render.Flash) {
	a.renderer.PageStatus(w, r, status, "object_related", &render.PageData{
		Title:   "Related content: " + src.obj.Title,
		Section: "object",
		Flashes: flashes,
		Data: map[string]any{
			"ContentType": src.ct,
			"Object":      src.obj,
			"Formset":     fs,
		},
	})
}

// inlineError renders a failure to build the inline form. Configuration
// errors show their cause in development only.
func (a *Admin) inlineError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("build related content inline failed", "error", err)

	var cfgErr *admin.ConfigError
	if !errors.As(err, &cfgErr) {
		a.renderer.Error(w, r, http.StatusInternalServerError, "Could not build the related content form.", "")
		return
	}

	detail := ""
	if a.devMode {
		detail = cfgErr.Error()
	}
	a.renderer.Error(w, r, http.StatusInternalServerError,
		"The related content form is misconfigured. Check the "+cfgErr.Setting+" setting.", detail)
}

// loadSource resolves the {model} and {id} URL parameters to an existing
// object, writing 400 or 404 otherwise.
func (a *Admin) loadSource(w http.ResponseWriter, r *http.Request) (*source, bool) {
	model := chi.URLParam(r, "model")
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return nil, false
	}

	ct, err := a.contentTypes.FindByModel(r.Context(), model)
	if err != nil {
		slog.Error("find content type failed", "model", model, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if ct == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return nil, false
	}

	exists, err := a.contentTypes.ObjectExists(r.Context(), ct, id)
	if err != nil {
		slog.Error("find source object failed", "model", model, "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if !exists {
		http.Error(w, "Not Found", http.StatusNotFound)
		return nil, false
	}
	title, err := a.contentTypes.ObjectTitle(r.Context(), ct, id)
	if err != nil {
		slog.Warn("source title lookup failed", "model", model, "id", id, "error", err)
	}

	return &source{
		ct:   ct,
		obj:  render.ObjectView{ID: id, Title: title},
		ref:  models.GenericRef{TypeID: ct.ID, ObjectID: id},
		path: "/admin/objects/" + ct.Model + "/" + id.String() + "/related",
	}, true
}

// fillDestinationTitles looks up the title of each link's destination for
// display. Lookup failures leave the title empty.
func (a *Admin) fillDestinationTitles(ctx context.Context, links []models.RelatedContent) {
	cts := map[uuid.UUID]*models.ContentType{}
	for i := range links {
		typeID := links[i].Destination.TypeID
		ct, ok := cts[typeID]
		if !ok {
			var err error
			ct, err = a.contentTypes.FindByID(ctx, typeID)
			if err != nil {
				slog.Warn("find destination type failed", "id", typeID, "error", err)
			}
			cts[typeID] = ct
		}
		if ct == nil {
			continue
		}
		title, err := a.contentTypes.ObjectTitle(ctx, ct, links[i].Destination.ObjectID)
		if err != nil {
			slog.Warn("destination title lookup failed", "error", err)
			continue
		}
		links[i].DestinationTitle = title
	}
}
