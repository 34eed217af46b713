package main

import (
	"flag"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/midbel/cli"
	"github.com/midbel/jsonpath"
)

var exploreCmd = cli.Command{
	Name:    "explore",
	Alias:   []string{"repl"},
	Summary: "explore a json document interactively",
	Handler: &ExploreCmd{},
}

type ExploreCmd struct {
	Limit int
	DecodeOptions
}

func (e *ExploreCmd) Run(args []string) error {
	set := flag.NewFlagSet("explore", flag.ContinueOnError)
	set.IntVar(&e.Limit, "limit", 50, "maximum number of matches displayed")
	set.BoolVar(&e.Yaml, "yaml", false, "decode the input document as yaml")
	if err := set.Parse(args); err != nil {
		return err
	}
	doc, err := loadDocument(set.Arg(0), e.DecodeOptions)
	if err != nil {
		return err
	}
	model := newExplorer(doc, e.Limit)
	_, err = tea.NewProgram(model).Run()
	return err
}

var (
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	statusStyle = lipgloss.NewStyle().Faint(true)
)

type explorer struct {
	input textinput.Model
	doc   any
	limit int

	results jsonpath.NodeList
	err     error
}

func newExplorer(doc any, limit int) explorer {
	input := textinput.New()
	input.Placeholder = "$.store.book[?@.price < 10]"
	input.SetValue("$")
	input.Focus()

	e := explorer{
		input: input,
		doc:   doc,
		limit: limit,
	}
	e.apply()
	return e
}

func (e explorer) Init() tea.Cmd {
	return nil
}

func (e explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return e, tea.Quit
		}
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	e.apply()
	return e, cmd
}

func (e explorer) View() tea.View {
	var str strings.Builder
	str.WriteString(e.input.View())
	str.WriteString("\n\n")
	switch {
	case e.err != nil:
		str.WriteString(errorStyle.Render(e.err.Error()))
		str.WriteString("\n")
	case len(e.results) == 0:
		str.WriteString(statusStyle.Render("no match"))
		str.WriteString("\n")
	default:
		for i, n := range e.results {
			if i >= e.limit {
				str.WriteString(statusStyle.Render(fmt.Sprintf("... %d more", len(e.results)-e.limit)))
				str.WriteString("\n")
				break
			}
			str.WriteString(pathStyle.Render(n.Path()))
			str.WriteString(" = ")
			str.WriteString(renderValue(n.Value))
			str.WriteString("\n")
		}
		str.WriteString(statusStyle.Render(fmt.Sprintf("%d node(s)", len(e.results))))
		str.WriteString("\n")
	}
	str.WriteString(statusStyle.Render("esc to quit"))
	return tea.NewView(str.String())
}

func (e *explorer) apply() {
	e.results = nil
	query, err := jsonpath.Compile(e.input.Value())
	if err != nil {
		e.err = err
		return
	}
	e.err = nil
	e.results = query.Select(e.doc)
}

func renderValue(value any) string {
	var (
		str strings.Builder
		ws  = jsonpath.NewWriter(&str)
	)
	ws.Compact = true
	if err := ws.Write(value); err != nil {
		return fmt.Sprintf("%v", value)
	}
	return str.String()
}
