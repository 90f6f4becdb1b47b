package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/couchcryptid/rainyday-config/internal/domain"
)

const (
	maxBodyBytes = 1 << 20
	uploadSuffix = "_UPLOAD"

	actionRefresh = "refresh"
)

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

type fieldView struct {
	Key     string
	Label   string
	Kind    domain.Kind
	Help    string
	Options []string
	Value   string
	MinAttr string
	MaxAttr string
	Step    string
	Visible bool
}

type groupView struct {
	Name   domain.Group
	Fields []fieldView
}

type pageView struct {
	Title   string
	Groups  []groupView
	Error   string
	Missing []string
	JSON    string
}

func (s *Server) handleForm(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, s.page, s.newPage(domain.NewFormState()))
}

// handleSubmit accepts the HTML form. The "refresh" action re-renders with
// the current selections applied; anything else builds the record.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	values, err := readForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	form := domain.NewFormState()
	if err := form.Apply(values); err != nil {
		page := s.newPage(form)
		page.Error = err.Error()
		s.render(w, http.StatusBadRequest, s.page, page)
		return
	}

	page := s.newPage(form)
	if r.PostForm.Get("action") == actionRefresh {
		s.render(w, http.StatusOK, s.page, page)
		return
	}

	res, err := s.submitter.Submit(r.Context(), form)
	if err != nil {
		var mfe *domain.MissingFieldsError
		if errors.As(err, &mfe) {
			page.Error = "Fields missing"
			page.Missing = mfe.Missing
			s.render(w, http.StatusUnprocessableEntity, s.page, page)
			return
		}
		s.logger.Error("submit failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	page.JSON = string(res.JSON)
	s.render(w, http.StatusOK, s.page, page)
}

type schemaGroup struct {
	Name   domain.Group   `json:"name"`
	Fields []domain.Field `json:"fields"`
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	groups := make([]schemaGroup, 0, len(domain.Groups))
	for _, g := range domain.Groups {
		groups = append(groups, schemaGroup{Name: g, Fields: domain.GroupFields(g)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

// handleConfig accepts a JSON object of input values and answers with the
// record exactly as it would be handed to RainyDay.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	values, err := decodeValues(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	form := domain.NewFormState()
	if err := form.Apply(values); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	res, err := s.submitter.Submit(r.Context(), form)
	if err != nil {
		var mfe *domain.MissingFieldsError
		if errors.As(err, &mfe) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   "fields missing",
				"missing": mfe.Missing,
			})
			return
		}
		s.logger.Error("submit failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(res.JSON) //nolint:errcheck // client went away
}

// readForm collects input values from a urlencoded or multipart body. For
// path fields an uploaded file contributes only its name.
func readForm(r *http.Request) (map[string]string, error) {
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	values := make(map[string]string)
	for key := range r.PostForm {
		if f, ok := domain.Lookup(key); ok && f.Input() {
			values[key] = r.PostForm.Get(key)
		}
	}

	if r.MultipartForm != nil {
		for _, f := range domain.Schema() {
			if f.Kind != domain.KindPath {
				continue
			}
			if files := r.MultipartForm.File[f.Key+uploadSuffix]; len(files) > 0 && files[0].Filename != "" {
				values[f.Key] = files[0].Filename
			}
		}
	}
	return values, nil
}

func decodeValues(r *http.Request) (map[string]string, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			values[k] = val
		case json.Number:
			values[k] = val.String()
		case bool:
			values[k] = strconv.FormatBool(val)
		case nil:
			values[k] = ""
		default:
			return nil, fmt.Errorf("field %s: expected a string, number or boolean", k)
		}
	}
	return values, nil
}

func (s *Server) newPage(form *domain.FormState) pageView {
	values := form.Values()
	page := pageView{Title: s.title}
	for _, g := range domain.Groups {
		gv := groupView{Name: g}
		for _, f := range domain.GroupFields(g) {
			if !f.Input() {
				continue
			}
			gv.Fields = append(gv.Fields, newFieldView(f, values))
		}
		page.Groups = append(page.Groups, gv)
	}
	return page
}

func newFieldView(f domain.Field, values map[string]any) fieldView {
	fv := fieldView{
		Key:     f.Key,
		Label:   f.Label,
		Kind:    f.Kind,
		Help:    f.Help,
		Options: f.Options,
		Value:   formatValue(values[f.Key]),
		Visible: domain.Visible(f, values),
	}
	if f.Min != nil {
		fv.MinAttr = strconv.FormatFloat(*f.Min, 'f', -1, 64)
	}
	if f.Max != nil {
		fv.MaxAttr = strconv.FormatFloat(*f.Max, 'f', -1, 64)
	}
	switch f.Kind {
	case domain.KindInt:
		fv.Step = "1"
	case domain.KindFloat:
		fv.Step = "any"
	}
	return fv
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (s *Server) render(w http.ResponseWriter, status int, t *template.Template, page pageView) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, page); err != nil {
		s.logger.Error("render form failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w) //nolint:errcheck // client went away
}
