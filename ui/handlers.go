package ui

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/gomarkdown/markdown"

	"failboard/adapters/tabular"
	"failboard/app"
	"failboard/domain/survey"
	"failboard/domain/view"
	"failboard/internal/summary"
	"failboard/internal/viewstate"
)

// sidebarField is one multi-select in the filter sidebar.
type sidebarField struct {
	Field   survey.Field
	Label   string
	Options []sidebarOption
}

type sidebarOption struct {
	Value   string
	Checked bool
}

// viewPanel is one chart prepared for the template: groups plus the link
// each element toggles its selection with.
type viewPanel struct {
	Config   view.ViewConfig
	Groups   []panelGroup
	MaxCount int
}

type panelGroup struct {
	view.GroupCount
	ToggleURL string
	Selected  bool
}

type indexData struct {
	Title       string
	DatasetName string
	TotalRows   int
	MatchedRows int
	Empty       bool
	Sidebar     []sidebarField
	Panels      []viewPanel
	Usage       []summary.GroupSummary
	Balance     map[survey.Field]float64
	ResetURL    string
}

var sidebarLabels = []struct {
	Field survey.Field
	Label string
}{
	{survey.FieldRace, "Race"},
	{survey.FieldAge, "Age"},
	{survey.FieldAccent, "Accent"},
	{survey.FieldGender, "Gender"},
	{survey.FieldFailureType, "Failure Type"},
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := viewstate.ParseFilter(query)
	sel := viewstate.ParseSelection(query)

	data, err := a.service.Render(r.Context(), filter, sel)
	if err != nil {
		a.log.Error("render failed: %v", err)
		http.Error(w, "failed to compute dashboard", http.StatusInternalServerError)
		return
	}

	records, err := a.service.Records()
	if err != nil {
		http.Error(w, "failed to load records", http.StatusInternalServerError)
		return
	}

	page := indexData{
		Title:       "Voice Assistant Failures Dashboard",
		DatasetName: data.DatasetName,
		TotalRows:   data.TotalRows,
		MatchedRows: data.MatchedRows,
		Empty:       data.MatchedRows == 0,
		Sidebar:     buildSidebar(records, filter),
		Panels:      buildPanels(data, query, sel),
		Usage:       data.Usage,
		Balance:     data.Balance,
		ResetURL:    r.URL.Path,
	}
	a.renderTemplate(w, "index.html", page)
}

// buildSidebar lists each filter field's distinct values in display order,
// marking the currently accepted ones.
func buildSidebar(records []survey.CleanRecord, filter view.FilterState) []sidebarField {
	fields := make([]sidebarField, 0, len(sidebarLabels))
	for _, def := range sidebarLabels {
		options := optionValues(records, def.Field)
		accepted, constrained := filter.Accept[def.Field]
		sf := sidebarField{Field: def.Field, Label: def.Label}
		for _, v := range options {
			checked := !constrained || accepted.Has(v)
			sf.Options = append(sf.Options, sidebarOption{Value: v, Checked: checked})
		}
		fields = append(fields, sf)
	}
	return fields
}

// optionValues merges the field's declared domain with values observed in
// the data, keeping declared order first.
func optionValues(records []survey.CleanRecord, field survey.Field) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range survey.Domain(field) {
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, r := range records {
		v, ok := r.Value(field)
		if !ok {
			continue
		}
		if _, dup := seen[v]; !dup {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// buildPanels attaches toggle links: clicking a chart element adds or
// removes its value from the selection while keeping the rest of the query.
func buildPanels(data *app.DashboardData, query url.Values, sel view.SelectionState) []viewPanel {
	panels := make([]viewPanel, 0, len(data.Views))
	for _, vr := range data.Views {
		panel := viewPanel{Config: vr.Config}
		clickField := vr.Config.ClickField()
		clickIdx := -1
		for i, f := range vr.Config.GroupBy {
			if f == clickField {
				clickIdx = i
			}
		}
		for _, g := range vr.Groups {
			if g.Count > panel.MaxCount {
				panel.MaxCount = g.Count
			}
			pg := panelGroup{GroupCount: g}
			if clickIdx >= 0 {
				value := g.Key[clickIdx]
				pg.Selected = sel[clickField].Has(value)
				pg.ToggleURL = toggleSelectionURL(query, clickField, value)
			}
			panel.Groups = append(panel.Groups, pg)
		}
		panels = append(panels, panel)
	}
	return panels
}

// toggleSelectionURL rebuilds the query with the given selection value
// toggled and everything else untouched.
func toggleSelectionURL(query url.Values, field survey.Field, value string) string {
	next := url.Values{}
	param := "sel." + string(field)
	found := false
	for key, vals := range query {
		for _, v := range vals {
			if key == param && v == value {
				found = true
				continue
			}
			next.Add(key, v)
		}
	}
	if !found {
		next.Add(param, value)
	}
	return "?" + next.Encode()
}

func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := tabular.DecodeUpload(header.Filename, file)
	if err != nil {
		a.log.Warn("upload rejected: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := a.service.ReplaceSource(tabular.NewMemorySource(header.Filename, rows))
	a.log.Info("uploaded %s (%d rows, dataset %s)", header.Filename, len(rows), id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) handleMethodology(w http.ResponseWriter, r *http.Request) {
	src, err := embeddedFiles.ReadFile("methodology.md")
	if err != nil {
		http.Error(w, "methodology not available", http.StatusInternalServerError)
		return
	}
	a.renderTemplate(w, "methodology.html", map[string]interface{}{
		"Title": "Methodology",
		"Body":  string(markdown.ToHTML(src, nil, nil)),
	})
}

func (a *App) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	data, err := a.service.Render(r.Context(), viewstate.ParseFilter(query), viewstate.ParseSelection(query))
	if err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": err.Error()})
		return
	}
	render.JSON(w, r, data)
}

func (a *App) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	query := r.URL.Query()
	vr, err := a.service.RenderView(r.Context(), name, viewstate.ParseFilter(query), viewstate.ParseSelection(query))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.xlsx"`)
	if err := tabular.WriteGroupsXLSX(w, vr.Config.GroupBy, vr.Groups); err != nil {
		a.log.Error("export %s: %v", name, err)
	}
}
