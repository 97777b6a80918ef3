package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jekyllgo/jekyllgo/pkg/collection"
)

var (
	newDraft       bool
	newLayout      string
	newTags        string
	newInteractive bool
	newFuzzyLayout bool
)

var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Scaffold a new post",
	Long: `new creates a _posts/YYYY-MM-DD-slug.md file (or _drafts/slug.md with
--draft) with a minimal front matter block.

Example usage:
  jekyllgo new "My First Post"
  jekyllgo new "Work in progress" --draft
  jekyllgo new "Release notes" --layout post --tags go,release
  jekyllgo new --interactive`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNewCommand,
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().BoolVar(&newDraft, "draft", false, "create under _drafts/ instead of _posts/")
	newCmd.Flags().StringVar(&newLayout, "layout", "post", "layout front matter value")
	newCmd.Flags().StringVar(&newTags, "tags", "", "comma-separated list of tags")
	newCmd.Flags().BoolVarP(&newInteractive, "interactive", "i", false, "prompt for title, layout, tags, and draft status")
	newCmd.Flags().BoolVar(&newFuzzyLayout, "fuzzy-layout", false, "fuzzy-pick the layout from _layouts/ instead of --layout")
}

func runNewCommand(_ *cobra.Command, args []string) error {
	var title string
	switch {
	case newInteractive:
		answers, err := runNewWizard()
		if err != nil {
			return err
		}
		title = answers.Title
		newLayout = answers.Layout
		newTags = strings.Join(answers.Tags, ",")
		newDraft = answers.Draft
	case len(args) == 1:
		title = args[0]
	default:
		return fmt.Errorf("a title is required (pass it as an argument or use --interactive)")
	}

	source := sourceDirOrDot()

	if newFuzzyLayout {
		picked, err := pickLayoutFuzzy(source)
		if err != nil {
			return err
		}
		newLayout = picked
	}

	slug := collection.Slugify(title)
	if slug == "" {
		return fmt.Errorf("title %q produces an empty slug", title)
	}

	var dir, filename string
	now := time.Now()
	if newDraft {
		dir = filepath.Join(source, "_drafts")
		filename = slug + ".md"
	} else {
		dir = filepath.Join(source, "_posts")
		filename = now.Format("2006-01-02") + "-" + slug + ".md"
	}

	fullPath := filepath.Join(dir, filename)
	if _, err := os.Stat(fullPath); err == nil {
		return fmt.Errorf("file already exists: %s", fullPath)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	fm := map[string]interface{}{
		"title":  title,
		"layout": newLayout,
	}
	if tags := parseTagList(newTags); len(tags) > 0 {
		fm["tags"] = tags
	}
	fmBytes, err := yaml.Marshal(fm)
	if err != nil {
		return fmt.Errorf("encoding front matter: %w", err)
	}

	var body strings.Builder
	body.WriteString("---\n")
	body.Write(fmBytes)
	body.WriteString("---\n\nWrite your content here...\n")

	if err := os.WriteFile(fullPath, []byte(body.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", fullPath, err)
	}

	fmt.Printf("Created: %s\n", fullPath)
	return nil
}

// newWizardAnswers holds the fields gathered by the interactive new wizard.
type newWizardAnswers struct {
	Title  string
	Layout string
	Tags   []string
	Draft  bool
}

// runNewWizard runs a huh form prompting for the fields runNewCommand needs,
// grounded on the teacher's huh-based new-post wizard but scaled down to the
// fields a Jekyll post front matter actually uses.
func runNewWizard() (*newWizardAnswers, error) {
	source := sourceDirOrDot()
	layouts := discoverLayouts(source)
	existingTags := discoverTags(source)

	answers := &newWizardAnswers{Layout: "post"}
	var customTags string

	layoutOptions := make([]huh.Option[string], 0, len(layouts)+1)
	if len(layouts) == 0 {
		layoutOptions = append(layoutOptions, huh.NewOption("post", "post"))
	}
	for _, l := range layouts {
		layoutOptions = append(layoutOptions, huh.NewOption(l, l))
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Value(&answers.Title).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("title is required")
				}
				return nil
			}),
		huh.NewSelect[string]().
			Title("Layout").
			Options(layoutOptions...).
			Value(&answers.Layout),
	}

	if len(existingTags) > 0 {
		tagOptions := make([]huh.Option[string], 0, len(existingTags))
		for _, t := range existingTags {
			tagOptions = append(tagOptions, huh.NewOption(t, t))
		}
		fields = append(fields,
			huh.NewMultiSelect[string]().
				Title("Tags").
				Description("space to select, / to filter").
				Options(tagOptions...).
				Filterable(true).
				Value(&answers.Tags))
	}

	fields = append(fields,
		huh.NewInput().
			Title("Additional tags").
			Description("comma-separated, optional").
			Value(&customTags),
		huh.NewConfirm().
			Title("Save as a draft?").
			Value(&answers.Draft).
			Affirmative("Yes").
			Negative("No"))

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	for _, t := range parseTagList(customTags) {
		if !containsTag(answers.Tags, t) {
			answers.Tags = append(answers.Tags, t)
		}
	}
	return answers, nil
}

// pickLayoutFuzzy opens an interactive fuzzy-find prompt over the layout
// names available under source's _layouts/ directory, returning the one the
// user selects.
func pickLayoutFuzzy(source string) (string, error) {
	layouts := discoverLayouts(source)
	if len(layouts) == 0 {
		return "", fmt.Errorf("no layouts found under %s/_layouts", source)
	}
	idx, err := fuzzyfinder.Find(layouts, func(i int) string { return layouts[i] })
	if err != nil {
		return "", fmt.Errorf("picking a layout: %w", err)
	}
	return layouts[idx], nil
}

func containsTag(tags []string, t string) bool {
	for _, existing := range tags {
		if existing == t {
			return true
		}
	}
	return false
}

// discoverLayouts lists layout names available under _layouts/.
func discoverLayouts(source string) []string {
	entries, err := os.ReadDir(filepath.Join(source, "_layouts"))
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// discoverTags scans _posts/ front matter for previously used tags.
func discoverTags(source string) []string {
	entries, err := os.ReadDir(filepath.Join(source, "_posts"))
	if err != nil {
		return nil
	}
	seen := map[string]bool{}
	var tags []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(source, "_posts", e.Name()))
		if err != nil {
			continue
		}
		for _, line := range strings.Split(string(raw), "\n") {
			trimmed := strings.TrimSpace(line)
			if !strings.HasPrefix(trimmed, "tags:") {
				continue
			}
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "tags:"))
			rest = strings.Trim(rest, "[]")
			for _, t := range strings.Split(rest, ",") {
				t = strings.Trim(strings.TrimSpace(t), `"'`)
				if t != "" && !seen[t] {
					seen[t] = true
					tags = append(tags, t)
				}
			}
		}
	}
	return tags
}

func parseTagList(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
