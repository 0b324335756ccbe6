package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"efficiensa/internal/client"
	"efficiensa/internal/kitchen"
)

var (
	apiURL   = flag.String("api", "", "API base URL (default $KDS_API_URL)")
	view     = flag.String("view", "kitchen", "Board view: queue, cooking, expo, delayed, history, kitchen, all")
	station  = flag.String("station", "", "Only show items for this station")
	terminal = flag.String("terminal", "", "Terminal code sent with every request")
	bump     = flag.String("bump", "", "Bump the order with this id and exit")
	once     = flag.Bool("once", false, "Print the board once and exit")
	refresh  = flag.Duration("refresh", 2*time.Second, "Board refresh interval")
)

var views = []kitchen.View{
	kitchen.ViewKitchen,
	kitchen.ViewQueue,
	kitchen.ViewCooking,
	kitchen.ViewExpo,
	kitchen.ViewDelayed,
	kitchen.ViewHistory,
}

// Model defines the board application state
type Model struct {
	client   *client.Client
	view     kitchen.View
	station  string
	refresh  time.Duration
	board    kitchen.Board
	selected int
	width    int
	spinner  spinner.Model
	loading  bool
	status   string
	error    string
}

// Custom message types for the tea.Model
type boardMsg struct {
	board kitchen.Board
	err   error
}

type actionMsg struct {
	action string
	err    error
}

type tickMsg time.Time

func initialModel(c *client.Client, v kitchen.View, st string, every time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#2B9EDE"))

	return Model{
		client:  c,
		view:    v,
		station: st,
		refresh: every,
		spinner: s,
		loading: true,
		width:   100,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchBoard(m.client, m.view, m.station), tick(m.refresh))
}

// Update handles UI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "right", "l":
			if m.selected < len(m.board.Cards)-1 {
				m.selected++
			}
		case "left", "h":
			if m.selected > 0 {
				m.selected--
			}
		case "tab":
			m.view = nextView(m.view)
			m.selected = 0
			m.loading = true
			return m, fetchBoard(m.client, m.view, m.station)
		case "r":
			m.loading = true
			return m, fetchBoard(m.client, m.view, m.station)
		case "b", "enter":
			if id := m.selectedID(); id != "" {
				return m, runAction(m.client, "bump", id)
			}
		case "u":
			if id := m.selectedID(); id != "" {
				return m, runAction(m.client, "recall", id)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchBoard(m.client, m.view, m.station), tick(m.refresh))

	case boardMsg:
		m.loading = false
		if msg.err != nil {
			m.error = msg.err.Error()
			return m, nil
		}
		m.error = ""
		m.board = msg.board
		if m.selected >= len(m.board.Cards) {
			m.selected = len(m.board.Cards) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.error = msg.err.Error()
			return m, nil
		}
		m.status = msg.action + " ok"
		return m, fetchBoard(m.client, m.view, m.station)
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	out := renderBoard(m.board, m.selected, m.width)
	if m.loading {
		out = m.spinner.View() + " " + out
	}
	if m.error != "" {
		out += "\n\n" + errorStyle.Render(m.error)
	} else if m.status != "" {
		out += "\n\n" + mutedStyle.Render(m.status)
	}
	return out + "\n\n" + mutedStyle.Render("←/→ select · b bump · u recall · tab view · r refresh · q quit")
}

func (m Model) selectedID() string {
	if m.selected < 0 || m.selected >= len(m.board.Cards) {
		return ""
	}
	return m.board.Cards[m.selected].ID
}

func nextView(v kitchen.View) kitchen.View {
	for i, candidate := range views {
		if candidate == v {
			return views[(i+1)%len(views)]
		}
	}
	return views[0]
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func fetchBoard(c *client.Client, v kitchen.View, st string) tea.Cmd {
	return func() tea.Msg {
		board, err := loadBoard(context.Background(), c, v, st)
		return boardMsg{board: board, err: err}
	}
}

func runAction(c *client.Client, action, id string) tea.Cmd {
	return func() tea.Msg {
		var resp client.Response
		switch action {
		case "bump":
			resp = c.Bump(context.Background(), id)
		case "recall":
			resp = c.Recall(context.Background(), id)
		}
		if !resp.Success {
			return actionMsg{action: action, err: fmt.Errorf("%s failed: %s", action, resp.Error)}
		}
		return actionMsg{action: action}
	}
}

func loadBoard(ctx context.Context, c *client.Client, v kitchen.View, st string) (kitchen.Board, error) {
	var board kitchen.Board
	resp := c.GetBoard(ctx, string(v), st)
	if err := resp.Decode(&board); err != nil {
		return kitchen.Board{}, err
	}
	return board, nil
}

func main() {
	flag.Parse()

	c := client.New()
	if *apiURL != "" {
		c = client.NewWithURL(*apiURL)
	}
	c.Terminal = *terminal

	v, err := kitchen.ParseView(*view)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(2)
	}

	ctx := context.Background()
	switch {
	case *bump != "":
		resp := c.Bump(ctx, *bump)
		if !resp.Success {
			fmt.Fprintln(os.Stderr, errorStyle.Render("bump failed: "+resp.Error))
			os.Exit(1)
		}
		fmt.Println(titleStyle.Render("bumped " + *bump))

	case *once:
		board, err := loadBoard(ctx, c, v, *station)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
			os.Exit(1)
		}
		fmt.Println(renderBoard(board, -1, 120))

	default:
		p := tea.NewProgram(initialModel(c, v, *station, *refresh), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
			os.Exit(1)
		}
	}
}
