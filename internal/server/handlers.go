// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package server

import (
	"bytes"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/specportal/specportal/internal/discovery"
	"github.com/specportal/specportal/pkg/types"
)

// language returns the lang query parameter or the default language.
func (s *Server) language(w http.ResponseWriter, r *http.Request) (string, bool) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = s.cfg.DefaultLanguage
	}
	if len(s.cfg.Languages) > 0 && !slices.Contains(s.cfg.Languages, lang) {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Sprintf("unsupported language %q", lang))
		return "", false
	}
	return lang, true
}

// requiredVersion returns the version query parameter, failing when absent.
func requiredVersion(w http.ResponseWriter, r *http.Request) (string, bool) {
	version := r.URL.Query().Get("version")
	if version == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query parameter version is required")
		return "", false
	}
	return version, true
}

// lookupSpec resolves the {service} of the route for the requested language
// and version, defaulting to the service's newest loadable version.
func (s *Server) lookupSpec(w http.ResponseWriter, r *http.Request) (*discovery.APISpec, bool) {
	lang, ok := s.language(w, r)
	if !ok {
		return nil, false
	}
	service := chi.URLParam(r, "service")

	version := r.URL.Query().Get("version")
	if version == "" {
		latest, found := s.nav.LatestVersion(r.Context(), service, lang)
		if !found {
			writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("no versions of %s for language %s", service, lang))
			return nil, false
		}
		version = latest
	}

	spec, found := s.catalog.Spec(r.Context(), service, lang, version)
	if !found {
		writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("spec %s not found for %s/%s", service, lang, version))
		return nil, false
	}
	return spec, true
}

func (s *Server) handleListSpecs(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.language(w, r)
	if !ok {
		return
	}
	version, ok := requiredVersion(w, r)
	if !ok {
		return
	}

	specs := s.catalog.ListSpecs(r.Context(), lang, version)
	out := make([]types.SpecSummary, 0, len(specs))
	for _, spec := range specs {
		out = append(out, spec.Summary())
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSpecJSON(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.lookupSpec(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.writer.WriteJSON(spec.Document, &buf); err != nil {
		s.logger.Error("failed to encode spec", "spec", spec.ID, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to encode spec")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSpecYAML(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.lookupSpec(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.writer.WriteYAML(spec.Document, &buf); err != nil {
		s.logger.Error("failed to encode spec", "spec", spec.ID, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to encode spec")
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.lookupSpec(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "operationId")
	detail, found := spec.Document.OperationDetail(id)
	if !found {
		writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("operation %s not found in %s", id, spec.ID))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleHeader(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.language(w, r)
	if !ok {
		return
	}
	version, ok := requiredVersion(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.nav.Header(r.Context(), lang, version))
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.language(w, r)
	if !ok {
		return
	}
	service := chi.URLParam(r, "service")

	versions, err := s.nav.Versions(r.Context(), service, lang)
	if err != nil {
		s.logger.Error("failed to list versions", "service", service, "lang", lang, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to list versions")
		return
	}
	if len(versions) == 0 {
		writeError(w, http.StatusNotFound, codeNotFound, fmt.Sprintf("no versions of %s for language %s", service, lang))
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	lang, ok := s.language(w, r)
	if !ok {
		return
	}
	version, ok := requiredVersion(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query parameter q is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, s.nav.Search(r.Context(), lang, version, query, limit))
}
