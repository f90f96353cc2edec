package cli

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/facilitymap/pkg/backend"
	"github.com/matzehuels/facilitymap/pkg/errors"
	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/pipeline"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
	"github.com/matzehuels/facilitymap/pkg/render/blueprint"
	"github.com/matzehuels/facilitymap/pkg/view"
)

// browseCommand opens the interactive floor map.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		offline  bool
		building string
		fl       string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse floors and file maintenance requests interactively",
		Long: `Browse floors and file maintenance requests interactively.

Keys:
  tab / shift+tab   next / previous building
  ] / [             next / previous floor
  ↑/↓ or k/j        move between rooms
  enter             select the room and load its requests
  n                 file a request for the selected room
  s                 cycle the status filter
  /                 search by room number, name or id
  + / - / 0         zoom in / out / reset
  g / d             toggle grid / dimensions
  e                 export the current view as SVG
  r                 reload the floor
  esc               clear the selection
  q                 quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := floor.DefaultRegistry()
			state := view.New(reg)
			if building != "" {
				if fl == "" {
					fl = reg.FirstFloor(building)
				}
				b, f, err := resolveFloor(reg, building, fl)
				if err != nil {
					return err
				}
				state = state.SelectBuilding(b).SelectFloor(f)
			}

			var source browseBackend
			if !offline {
				client, err := c.newClient()
				if err != nil {
					return err
				}
				if client != nil {
					source = client
				}
			}

			runner, err := c.newRunner(cmd.Context(), false, true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			m := newBrowseModel(cmd.Context(), state, source, runner)
			p := tea.NewProgram(m,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "skip the backend and show default data")
	cmd.Flags().StringVar(&building, "building", "", "building to open (default DFA BUILDING)")
	cmd.Flags().StringVar(&fl, "floor", "", "floor to open (default: the building's first floor)")
	return cmd
}

// browseBackend is the part of the backend client the map uses.
// *backend.Client implements it.
type browseBackend interface {
	FetchRooms(ctx context.Context, building, floor string) ([]reconcile.ServerRoom, error)
	FetchRequests(ctx context.Context, roomID string) ([]backend.Request, error)
	SubmitRequest(ctx context.Context, n backend.NewRequest) (*backend.Request, error)
}

var errNoBackend = errors.New(errors.ErrCodeInvalidConfig, "no backend configured")

// =============================================================================
// Messages
// =============================================================================

// roomsMsg carries the room records fetched for generation gen.
type roomsMsg struct {
	gen     uint64
	records []reconcile.ServerRoom
	err     error
}

// requestsMsg carries the requests of one room fetched for generation gen.
type requestsMsg struct {
	gen    uint64
	roomID string
	reqs   []backend.Request
	err    error
}

type submitMsg struct {
	req backend.NewRequest
	err error
}

type exportMsg struct {
	path string
	err  error
}

// =============================================================================
// Model
// =============================================================================

// Form fields in tab order.
const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldCount
)

// Map cell size in floor units at zoom 1.
const (
	mapColUnits = 10.0
	mapRowUnits = 20.0
)

type browseModel struct {
	ctx     context.Context
	state   view.State
	backend browseBackend
	runner  *pipeline.Runner
	now     func() time.Time

	cursor    int
	searching bool
	field     int
	notice    string

	width, height int
}

func newBrowseModel(ctx context.Context, state view.State, source browseBackend, runner *pipeline.Runner) browseModel {
	return browseModel{
		ctx:     ctx,
		state:   state,
		backend: source,
		runner:  runner,
		now:     time.Now,
		width:   100,
		height:  40,
	}
}

func (m browseModel) Init() tea.Cmd {
	return m.fetchRooms()
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case roomsMsg:
		if msg.err != nil {
			m.state = m.state.RoomsFailed(msg.gen)
		} else {
			m.state = m.state.RoomsLoaded(msg.gen, msg.records)
		}
		m.clampCursor()
		return m, nil

	case requestsMsg:
		if msg.err != nil {
			m.state = m.state.RequestsFailed(msg.gen, msg.roomID)
		} else {
			m.state = m.state.RequestsLoaded(msg.gen, msg.roomID, msg.reqs)
		}
		return m, nil

	case submitMsg:
		if msg.err != nil {
			m.state = m.state.SubmitFailed(msg.req, m.now())
			return m, nil
		}
		m.state = m.state.SubmitSucceeded()
		m.notice = "Request submitted for " + msg.req.Room
		return m, tea.Batch(m.fetchRooms(), m.fetchRequests())

	case exportMsg:
		if msg.err != nil {
			m.notice = "Export failed: " + errors.UserMessage(msg.err)
		} else {
			m.notice = "Saved " + msg.path
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.state.ModalOpen:
			return m.updateForm(msg)
		case m.searching:
			return m.updateSearch(msg), nil
		}
		return m.updateMap(msg)
	}
	return m, nil
}

func (m browseModel) updateMap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	s := m.state
	reg := s.Registry()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab", "shift+tab":
		step := 1
		if msg.String() == "shift+tab" {
			step = -1
		}
		m.state = s.SelectBuilding(cycle(buildingNames(reg), s.Building, step))
		m.cursor = 0
		return m, m.fetchRooms()
	case "]", "[":
		step := 1
		if msg.String() == "[" {
			step = -1
		}
		next := cycle(reg.Floors(s.Building), s.Floor, step)
		if next == s.Floor {
			return m, nil
		}
		m.state = s.SelectFloor(next)
		m.cursor = 0
		return m, m.fetchRooms()
	case "r":
		m.state = s.SelectFloor(s.Floor)
		return m, m.fetchRooms()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices())-1 {
			m.cursor++
		}
	case "enter":
		choices := m.choices()
		if len(choices) == 0 {
			return m, nil
		}
		m.state = s.SelectRoom(choices[m.cursor].ID)
		return m, m.fetchRequests()
	case "esc":
		m.state = s.ClearSelection()
	case "n":
		m.state = s.OpenModal()
		m.field = fieldTitle
	case "s":
		m.state = s.SetStatusFilter(nextStatus(s.Filter.Status))
		m.clampCursor()
	case "/":
		m.searching = true
	case "+", "=":
		m.state = s.ZoomIn()
	case "-":
		m.state = s.ZoomOut()
	case "0":
		m.state = s.ResetZoom()
	case "g":
		m.state = s.ToggleGrid()
	case "d":
		m.state = s.ToggleDimensions()
	case "e":
		return m, m.export()
	}
	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) browseModel {
	q := m.state.Filter.Search
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		return m
	case tea.KeyEsc:
		m.searching = false
		q = ""
	case tea.KeyBackspace:
		q = dropLast(q)
	case tea.KeySpace:
		q += " "
	case tea.KeyRunes:
		q += string(msg.Runes)
	default:
		return m
	}
	m.state = m.state.SetSearch(q)
	m.clampCursor()
	return m
}

func (m browseModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.state
	if s.Submitting {
		return m, nil
	}
	d := s.Draft

	switch msg.Type {
	case tea.KeyEsc:
		m.state = s.CloseModal()
		return m, nil
	case tea.KeyTab:
		m.field = (m.field + 1) % fieldCount
		return m, nil
	case tea.KeyShiftTab:
		m.field = (m.field + fieldCount - 1) % fieldCount
		return m, nil
	case tea.KeyEnter:
		next, req, err := s.BeginSubmit()
		m.state = next
		if err != nil {
			return m, nil
		}
		return m, m.submit(req)
	case tea.KeyLeft, tea.KeyRight:
		if m.field == fieldPriority {
			step := 1
			if msg.Type == tea.KeyLeft {
				step = -1
			}
			d.Priority = cycle(backend.Priorities, d.Priority, step)
		}
	case tea.KeyBackspace:
		switch m.field {
		case fieldTitle:
			d.Title = dropLast(d.Title)
		case fieldDescription:
			d.Description = dropLast(d.Description)
		}
	case tea.KeySpace, tea.KeyRunes:
		text := " "
		if msg.Type == tea.KeyRunes {
			text = string(msg.Runes)
		}
		switch m.field {
		case fieldTitle:
			d.Title += text
		case fieldDescription:
			d.Description += text
		}
	default:
		return m, nil
	}
	m.state = s.EditDraft(d)
	return m, nil
}

// choices returns the rooms the cursor moves through.
func (m browseModel) choices() []floor.Room {
	var out []floor.Room
	for _, r := range m.state.Visible() {
		if r.Selectable() && r.Kind != floor.KindHallway {
			out = append(out, r)
		}
	}
	return out
}

func (m *browseModel) clampCursor() {
	n := len(m.choices())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// =============================================================================
// Commands
// =============================================================================

func (m browseModel) fetchRooms() tea.Cmd {
	ctx, src := m.ctx, m.backend
	gen, b, f := m.state.Generation, m.state.Building, m.state.Floor
	return func() tea.Msg {
		if src == nil {
			return roomsMsg{gen: gen}
		}
		records, err := src.FetchRooms(ctx, b, f)
		return roomsMsg{gen: gen, records: records, err: err}
	}
}

func (m browseModel) fetchRequests() tea.Cmd {
	roomID := m.state.Selected
	if roomID == "" {
		return nil
	}
	ctx, src, gen := m.ctx, m.backend, m.state.Generation
	return func() tea.Msg {
		if src == nil {
			return requestsMsg{gen: gen, roomID: roomID}
		}
		reqs, err := src.FetchRequests(ctx, roomID)
		return requestsMsg{gen: gen, roomID: roomID, reqs: reqs, err: err}
	}
}

func (m browseModel) submit(req backend.NewRequest) tea.Cmd {
	ctx, src := m.ctx, m.backend
	return func() tea.Msg {
		if src == nil {
			return submitMsg{req: req, err: errNoBackend}
		}
		_, err := src.SubmitRequest(ctx, req)
		return submitMsg{req: req, err: err}
	}
}

// export renders the map as it is currently filtered and selected.
func (m browseModel) export() tea.Cmd {
	if m.runner == nil {
		return nil
	}
	ctx, runner, s := m.ctx, m.runner, m.state
	return func() tea.Msg {
		opts := pipeline.Options{
			Formats:    []string{pipeline.FormatSVG},
			Grid:       s.Grid,
			Dimensions: s.Dimensions,
			Status:     s.Filter.Status,
			Search:     s.Filter.Search,
			Selected:   s.Selected,
			Live:       s.Live,
		}
		artifacts, _, err := runner.Render(ctx, s.Layout, opts)
		if err != nil {
			return exportMsg{err: err}
		}
		path := slug(s.Building, s.Floor) + "." + pipeline.FormatSVG
		if err := writeOutput(nil, path, artifacts[pipeline.FormatSVG]); err != nil {
			return exportMsg{err: err}
		}
		abs, _ := filepath.Abs(path)
		return exportMsg{path: abs}
	}
}

// =============================================================================
// View
// =============================================================================

var (
	styleTab       = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
	styleTabActive = lipgloss.NewStyle().Foreground(colorWhite).Background(colorCyan).Bold(true).Padding(0, 1)
	styleModal     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorCyan).Padding(0, 1)
	styleField     = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleMapGrid   = lipgloss.NewStyle().Foreground(colorDim)
)

func (m browseModel) View() string {
	s := m.state
	reg := s.Registry()
	var b strings.Builder

	b.WriteString(StyleTitle.Render("facilitymap") + "  " + StyleDim.Render(floorLabel(s.Building, s.Floor)))
	b.WriteString("\n")
	b.WriteString(tabs(buildingNames(reg), s.Building) + "\n")
	b.WriteString(tabs(reg.Floors(s.Building), s.Floor) + "\n\n")

	if s.Loading {
		b.WriteString(StyleDim.Render(iconInfo+" Loading rooms...") + "\n")
	} else {
		printStats(&b, s.Stats(), s.Live)
	}
	if s.Warning != "" {
		printWarning(&b, "%s", s.Warning)
	}
	b.WriteString(m.filterLine() + "\n\n")

	b.WriteString(m.renderMap())
	b.WriteString("\n\n")

	switch {
	case s.ModalOpen:
		b.WriteString(m.renderForm())
	case s.Selected != "":
		b.WriteString(m.renderSelection())
	default:
		if choices := m.choices(); len(choices) > 0 {
			r := choices[m.cursor]
			b.WriteString(StyleDim.Render(fmt.Sprintf("%s %s  %s  %s", iconArrow, r.Number, r.Name, r.Status.Label())))
		} else {
			b.WriteString(StyleDim.Render("No rooms match the filter"))
		}
	}
	b.WriteString("\n")

	if s.Error != "" && !s.ModalOpen {
		printError(&b, "%s", s.Error)
	}
	if m.notice != "" {
		printInfo(&b, "%s", m.notice)
	}
	b.WriteString("\n" + StyleDim.Render(m.help()))
	return b.String()
}

func (m browseModel) filterLine() string {
	f := m.state.Filter
	st := "all"
	if f.Status != "" && f.Status != floor.StatusAll {
		st = f.Status.Label()
	}
	search := f.Search
	if m.searching {
		search += "_"
	}
	line := fmt.Sprintf("status: %s  search: %s  zoom: %.2fx", st, search, m.state.Zoom)
	if f.Active() {
		line += fmt.Sprintf("  (%d of %d spaces)", len(m.state.Visible()), len(m.state.Layout.Rooms))
	}
	return StyleDim.Render(line)
}

func (m browseModel) help() string {
	switch {
	case m.state.ModalOpen:
		return "tab next field  ←/→ priority  enter submit  esc close"
	case m.searching:
		return "type to search  enter done  esc clear"
	}
	return "tab building  [/] floor  ↑/↓ room  enter select  n new request  s status  / search  +/- zoom  g grid  d dims  e export  q quit"
}

func (m browseModel) renderSelection() string {
	s := m.state
	r, ok := s.SelectedRoom()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(r.Number) + "  " + StyleValue.Render(r.Name) + "  ")
	b.WriteString(statusStyle(r.Status).Render(iconDot+" "+r.Status.Label()) + "\n")
	switch {
	case s.RequestsLoading:
		b.WriteString(StyleDim.Render("Loading requests..."))
	case len(s.Requests) == 0:
		b.WriteString(StyleDim.Render("No requests"))
	default:
		b.WriteString(requestTable(s.Requests))
	}
	return b.String()
}

func (m browseModel) renderForm() string {
	s := m.state
	d := s.Draft
	label := func(field int, name string) string {
		if field == m.field {
			return styleField.Render("▸ " + name)
		}
		return StyleDim.Render("  " + name)
	}
	cursor := func(field int) string {
		if field == m.field {
			return "_"
		}
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("New request for "+s.Selected) + "\n\n")
	fmt.Fprintf(&b, "%s  %s%s\n", label(fieldTitle, "Title      "), d.Title, cursor(fieldTitle))
	fmt.Fprintf(&b, "%s  %s%s\n", label(fieldDescription, "Description"), d.Description, cursor(fieldDescription))
	fmt.Fprintf(&b, "%s  ‹ %s ›\n", label(fieldPriority, "Priority   "), d.Priority)
	if s.Submitting {
		b.WriteString("\n" + StyleDim.Render("Submitting..."))
	}
	if s.Error != "" {
		b.WriteString("\n" + styleIconError.Render(iconError+" "+s.Error))
		if len(s.Requests) > 0 {
			b.WriteString("\n" + requestTable(s.Requests))
		}
	}
	return styleModal.Render(b.String())
}

// renderMap draws the floor on a character grid, one cell per
// mapColUnits x mapRowUnits floor units at zoom 1.
func (m browseModel) renderMap() string {
	s := m.state
	l := s.Layout
	if l.Empty() {
		return StyleDim.Render("(no plan for this floor)")
	}

	colUnits, rowUnits := mapColUnits/s.Zoom, mapRowUnits/s.Zoom
	cols := min(int(math.Ceil(l.CanvasWidth/colUnits)), max(m.width-2, 20))
	rows := min(int(math.Ceil(l.CanvasHeight/rowUnits)), max(m.height-16, 8))

	grid := make([][]mapCell, rows)
	for y := range grid {
		grid[y] = make([]mapCell, cols)
		for x := range grid[y] {
			grid[y][x] = mapCell{ch: ' '}
			if s.Grid && x%4 == 0 && y%2 == 0 {
				grid[y][x] = mapCell{ch: '·', style: styleMapGrid}
			}
		}
	}

	var cursorID string
	if choices := m.choices(); len(choices) > 0 && s.Selected == "" {
		cursorID = choices[m.cursor].ID
	}

	for _, r := range l.Rooms {
		if r.Kind.Decorative() {
			continue
		}
		x0, x1 := int(r.X/colUnits), int(math.Ceil(r.Right()/colUnits))-1
		y0, y1 := int(r.Y/rowUnits), int(math.Ceil(r.Bottom()/rowUnits))-1
		x1, y1 = min(x1, cols-1), min(y1, rows-1)
		if x0 > x1 || y0 > y1 {
			continue
		}

		style := m.cellStyle(r, cursorID)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				grid[y][x] = mapCell{ch: ' ', style: style}
			}
		}

		labels := []string{r.Number}
		if s.Dimensions {
			labels = append(labels, fmt.Sprintf("%.0fx%.0f", r.Width, r.Height))
		}
		mid := (y0 + y1 - len(labels) + 1) / 2
		for i, text := range labels {
			y := mid + i
			if y < y0 || y > y1 {
				continue
			}
			runes := []rune(text)
			if len(runes) > x1-x0+1 {
				runes = runes[:x1-x0+1]
			}
			start := x0 + (x1-x0+1-len(runes))/2
			for j, ch := range runes {
				grid[y][start+j].ch = ch
			}
		}
	}

	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range row {
			b.WriteString(cell.style.Render(string(cell.ch)))
		}
	}
	return b.String()
}

type mapCell struct {
	ch    rune
	style lipgloss.Style
}

func (m browseModel) cellStyle(r floor.Room, cursorID string) lipgloss.Style {
	base := lipgloss.NewStyle().Foreground(lipgloss.Color("232"))
	switch {
	case r.ID == m.state.Selected:
		return base.Background(colorCyan).Bold(true)
	case r.ID == cursorID:
		return base.Background(colorWhite).Bold(true)
	case m.state.Filter.Active() && !m.state.Filter.Match(r):
		return base.Background(lipgloss.Color("236")).Foreground(colorDim)
	}
	switch r.Kind {
	case floor.KindHallway:
		return base.Background(lipgloss.Color("238")).Foreground(colorGray)
	case floor.KindStairs, floor.KindRestroom:
		return base.Background(colorDim)
	}
	if r.Status == floor.StatusNoRequest || !r.Status.Valid() {
		return base.Background(colorGray)
	}
	return base.Background(lipgloss.Color(blueprint.StatusColor(r.Status)))
}

// =============================================================================
// Helpers
// =============================================================================

func tabs(names []string, current string) string {
	out := make([]string, len(names))
	for i, n := range names {
		if n == current {
			out[i] = styleTabActive.Render(n)
		} else {
			out[i] = styleTab.Render(n)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func buildingNames(reg *floor.Registry) []string {
	bs := reg.Buildings()
	names := make([]string, len(bs))
	for i, b := range bs {
		names[i] = b.Name
	}
	return names
}

// cycle returns the element step positions away from current, wrapping
// around. An unknown current yields the first element.
func cycle[T comparable](items []T, current T, step int) T {
	if len(items) == 0 {
		return current
	}
	for i, it := range items {
		if it == current {
			return items[((i+step)%len(items)+len(items))%len(items)]
		}
	}
	return items[0]
}

// nextStatus steps the status filter through all, then each status.
func nextStatus(st floor.Status) floor.Status {
	if st == "" {
		st = floor.StatusAll
	}
	return cycle(append([]floor.Status{floor.StatusAll}, floor.Statuses...), st, 1)
}

func dropLast(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
