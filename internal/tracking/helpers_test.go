package tracking

import (
	"context"
	"errors"
	"sync"

	"github.com/user/sitekit/internal/entity"
)

// recorder implements both Reporter and repository.Collector.
type recorder struct {
	mu       sync.Mutex
	commands []entity.Command
	failOn   string
}

func (r *recorder) Push(_ context.Context, cmd entity.Command) error {
	return r.record(cmd)
}

func (r *recorder) Collect(_ context.Context, cmd entity.Command) error {
	return r.record(cmd)
}

func (r *recorder) record(cmd entity.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn != "" && cmd.Target == r.failOn {
		return errors.New("rejected " + cmd.Target)
	}
	r.commands = append(r.commands, cmd)
	return nil
}

func (r *recorder) all() []entity.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Command(nil), r.commands...)
}

// events returns the commands of kind event as "action|category|label".
func (r *recorder) events() []string {
	var out []string
	for _, cmd := range r.all() {
		if cmd.Name != entity.CommandEvent {
			continue
		}
		label, _ := cmd.Params["event_label"].(string)
		category, _ := cmd.Params["event_category"].(string)
		out = append(out, cmd.Target+"|"+category+"|"+label)
	}
	return out
}

// pageViews returns the page_path of every config command carrying one.
func (r *recorder) pageViews() []string {
	var out []string
	for _, cmd := range r.all() {
		if cmd.Name != entity.CommandConfig {
			continue
		}
		if path, ok := cmd.Params["page_path"].(string); ok {
			out = append(out, path)
		}
	}
	return out
}

func names(cmds []entity.Command) []string {
	out := make([]string, len(cmds))
	for i, cmd := range cmds {
		out[i] = cmd.Name
	}
	return out
}
