package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/lernkarten/internal/anki"
	"github.com/f3rmion/lernkarten/internal/clipboard"
	"github.com/f3rmion/lernkarten/internal/flashcard"
	"github.com/mattn/go-runewidth"
)

const (
	listWidth   = 28
	listRows    = 12
	defaultCard = 60
)

// clearCopiedMsg is sent to clear the copied indicator
type clearCopiedMsg struct{}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// PreviewModel is the Bubble Tea model for paging through a set of cards.
type PreviewModel struct {
	title string
	cards []flashcard.Card

	// Card navigation
	filtered []int
	current  int
	flipped  bool

	// Search
	searchInput textinput.Model
	searching   bool
	searchTerm  string

	// Clipboard
	copy    func(string) error
	copied  bool
	copyErr error

	width  int
	height int
}

// NewPreview creates a preview of cards. title is shown in the header,
// usually the file the cards were loaded from.
func NewPreview(title string, cards []flashcard.Card) PreviewModel {
	si := textinput.New()
	si.Placeholder = "Search..."
	si.CharLimit = 50
	si.Width = 30

	m := PreviewModel{
		title:       title,
		cards:       cards,
		searchInput: si,
		copy:        clipboard.Write,
	}
	m.applyFilter()
	return m
}

// Init initializes the model.
func (m PreviewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case clearCopiedMsg:
		m.copied = false
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			switch msg.String() {
			case "enter":
				m.searching = false
				m.searchInput.Blur()
				m.searchTerm = m.searchInput.Value()
				m.applyFilter()
				return m, nil
			case "esc":
				m.searching = false
				m.searchInput.Blur()
				m.searchInput.SetValue(m.searchTerm)
				return m, nil
			default:
				var cmd tea.Cmd
				m.searchInput, cmd = m.searchInput.Update(msg)
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.current > 0 {
				m.current--
				m.flipped = false
			}
			return m, nil
		case "down", "j":
			if m.current < len(m.filtered)-1 {
				m.current++
				m.flipped = false
			}
			return m, nil
		case " ", "enter":
			if len(m.filtered) > 0 {
				m.flipped = !m.flipped
			}
			return m, nil
		case "/":
			m.searching = true
			m.searchInput.Focus()
			return m, textinput.Blink
		case "x":
			m.searchTerm = ""
			m.searchInput.SetValue("")
			m.applyFilter()
			return m, nil
		case "c":
			card, ok := m.Current()
			if !ok {
				return m, nil
			}
			if err := m.copy(m.visibleSide(card)); err != nil {
				m.copyErr = err
				return m, nil
			}
			m.copyErr = nil
			m.copied = true
			return m, clearCopiedAfter(2 * time.Second)
		}
	}

	return m, nil
}

// Current returns the selected card, if any card matches the filter.
func (m PreviewModel) Current() (flashcard.Card, bool) {
	if m.current >= len(m.filtered) {
		return flashcard.Card{}, false
	}
	return m.cards[m.filtered[m.current]], true
}

// Flipped reports whether the back of the current card is showing.
func (m PreviewModel) Flipped() bool {
	return m.flipped
}

func (m PreviewModel) visibleSide(c flashcard.Card) string {
	if m.flipped {
		return plainText(c.Back)
	}
	return plainText(c.Front)
}

func (m *PreviewModel) applyFilter() {
	m.filtered = nil
	term := strings.ToLower(strings.TrimSpace(m.searchTerm))
	for i, c := range m.cards {
		if term == "" ||
			strings.Contains(strings.ToLower(plainText(c.Front)), term) ||
			strings.Contains(strings.ToLower(plainText(c.Back)), term) {
			m.filtered = append(m.filtered, i)
		}
	}
	m.current = 0
	m.flipped = false
}

// plainText turns card HTML into terminal text, keeping line breaks.
func plainText(s string) string {
	s = strings.ReplaceAll(s, flashcard.LineBreak, "\n")
	s = strings.ReplaceAll(s, "</li>", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = anki.StripHTML(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// View renders the preview.
func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("lernkarten"))
	b.WriteString(" ")
	b.WriteString(SubtitleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(SearchBoxStyle.Render("Search: " + m.searchInput.View()))
		b.WriteString("\n\n")
	} else if m.searchTerm != "" {
		b.WriteString(HelpStyle.Render(fmt.Sprintf("Filter: \"%s\" (press 'x' to clear)", m.searchTerm)))
		b.WriteString("\n\n")
	}

	if len(m.filtered) == 0 {
		if len(m.cards) == 0 {
			b.WriteString(HelpStyle.Render("No cards to preview"))
		} else {
			b.WriteString(HelpStyle.Render("No cards match your search"))
		}
		b.WriteString("\n\n")
	} else {
		b.WriteString(CardCountStyle.Render(
			fmt.Sprintf("Card %d of %d", m.current+1, len(m.filtered)),
		))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderList(), "  ", m.renderCard()))
		b.WriteString("\n\n")
	}

	if m.copyErr != nil {
		b.WriteString(ErrorStyle.Render(m.copyErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("↑/↓: cards • space: flip • /: search • c: copy • q: quit"))

	return b.String()
}

func (m PreviewModel) renderList() string {
	start := 0
	if m.current >= listRows {
		start = m.current - listRows + 1
	}
	end := min(start+listRows, len(m.filtered))

	var rows []string
	for i := start; i < end; i++ {
		front := strings.ReplaceAll(plainText(m.cards[m.filtered[i]].Front), "\n", " ")
		front = runewidth.FillRight(runewidth.Truncate(front, listWidth, "…"), listWidth)
		if i == m.current {
			rows = append(rows, ListItemActiveStyle.Render(front))
		} else {
			rows = append(rows, ListItemStyle.Render(front))
		}
	}
	return ListStyle.Render(strings.Join(rows, "\n"))
}

func (m PreviewModel) renderCard() string {
	card, _ := m.Current()

	width := defaultCard
	if m.width > 0 && m.width-listWidth-12 < width {
		width = max(m.width-listWidth-12, 20)
	}

	label := "Front"
	style := FrontStyle
	if m.flipped {
		label = "Back"
		style = BackStyle
	}
	header := SideLabelStyle.Render(label)
	if m.copied {
		header += "  " + CopiedStyle.Render("✓ Copied!")
	}

	content := header + "\n\n" + m.visibleSide(card)
	if card.Tags != "" {
		content += "\n\n" + TagStyle.Render(strings.TrimSpace(card.Tags))
	}
	return style.Width(width).Render(content)
}

// CardsFromPackage converts the notes of an opened package into cards, using
// the first two fields as front and back.
func CardsFromPackage(pkg *anki.Package) []flashcard.Card {
	cards := make([]flashcard.Card, 0, len(pkg.Notes))
	for _, note := range pkg.Notes {
		var c flashcard.Card
		if len(note.Fields) > 0 {
			c.Front = note.Fields[0]
		}
		if len(note.Fields) > 1 {
			c.Back = note.Fields[1]
		}
		c.Tags = strings.TrimSpace(note.Tags)
		cards = append(cards, c)
	}
	return cards
}
