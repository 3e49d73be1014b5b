package agent

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed agents.yaml tasks.yaml
var defaultPrompts embed.FS

// Профиль агента: кто он и чего добивается
type Profile struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

// Описание задачи и агента, который ее выполняет
type TaskSpec struct {
	Agent          string `yaml:"agent"`
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`
}

type Prompts struct {
	Agents map[string]Profile
	Tasks  map[string]TaskSpec
}

// LoadPrompts читает agents.yaml и tasks.yaml из dir, при пустом dir берет встроенные
func LoadPrompts(dir string) (Prompts, error) {
	var fsys fs.FS = defaultPrompts
	if dir != "" {
		fsys = os.DirFS(dir)
	}

	var p Prompts

	if err := decodeYAML(fsys, "agents.yaml", &p.Agents); err != nil {
		return Prompts{}, err
	}

	if err := decodeYAML(fsys, "tasks.yaml", &p.Tasks); err != nil {
		return Prompts{}, err
	}

	for name, task := range p.Tasks {
		if _, ok := p.Agents[task.Agent]; !ok {
			return Prompts{}, fmt.Errorf("task %s refers to unknown agent %q", name, task.Agent)
		}
	}

	return p, nil
}

func decodeYAML(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}

	return nil
}

// Messages собирает системный и пользовательский промпт задачи, подставляя {topic}
func (p Prompts) Messages(task, topic, context string) (string, string, error) {
	spec, ok := p.Tasks[task]
	if !ok {
		return "", "", fmt.Errorf("unknown task %q", task)
	}

	profile := p.Agents[spec.Agent]
	r := strings.NewReplacer("{topic}", topic)

	system := fmt.Sprintf(
		"You are %s.\n%s\nYour personal goal is: %s",
		strings.TrimSpace(r.Replace(profile.Role)),
		strings.TrimSpace(r.Replace(profile.Backstory)),
		strings.TrimSpace(r.Replace(profile.Goal)),
	)

	var user strings.Builder
	user.WriteString(strings.TrimSpace(r.Replace(spec.Description)))
	user.WriteString("\n\nExpected output: ")
	user.WriteString(strings.TrimSpace(r.Replace(spec.ExpectedOutput)))

	if context = strings.TrimSpace(context); context != "" {
		user.WriteString("\n\nContext:\n")
		user.WriteString(context)
	}

	return system, user.String(), nil
}
