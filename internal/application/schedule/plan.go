package schedule

import (
	"fmt"
	"strings"

	"github.com/younwookim/crius/internal/ecs"
)

// node is a planned system. slot is its declaration index within the stage
// and orders command buffer application. deps and dependents index into the
// node's batch.
type node struct {
	slot       int
	name       string
	access     ecs.Access
	run        func(ctx *ecs.Context)
	world      func(w *ecs.World)
	deps       []int
	dependents []int
}

// step is either a batch of parallel systems or a single thread-affined one
type step struct {
	batch   []*node
	affined *node
}

type stage struct {
	steps   []step
	systems int
}

// plan splits entries into stages at barriers and computes, for every
// batch, which systems must wait for which. Empty stages are dropped.
func plan(entries []entry) []stage {
	var (
		stages []stage
		cur    stage
		batch  []*node
	)

	flushBatch := func() {
		if len(batch) == 0 {
			return
		}
		link(batch)
		cur.steps = append(cur.steps, step{batch: batch})
		batch = nil
	}
	closeStage := func() {
		flushBatch()
		if cur.systems > 0 {
			stages = append(stages, cur)
		}
		cur = stage{}
	}

	for _, e := range entries {
		if e.newStage {
			closeStage()
			continue
		}
		n := &node{slot: cur.systems, name: e.name, access: e.access, run: e.run, world: e.world}
		cur.systems++
		if e.affined {
			flushBatch()
			cur.steps = append(cur.steps, step{affined: n})
			continue
		}
		batch = append(batch, n)
	}
	closeStage()
	return stages
}

// link makes a later system depend on every earlier system it conflicts with
func link(batch []*node) {
	for j := range batch {
		for i := 0; i < j; i++ {
			if batch[i].access.Conflicts(batch[j].access) {
				batch[j].deps = append(batch[j].deps, i)
				batch[i].dependents = append(batch[i].dependents, j)
			}
		}
	}
}

func describe(stages []stage) string {
	var sb strings.Builder
	for i, st := range stages {
		fmt.Fprintf(&sb, "stage %d systems=%d\n", i, st.systems)
		for _, s := range st.steps {
			if s.affined != nil {
				n := s.affined
				if n.world != nil {
					fmt.Fprintf(&sb, "  thread-affined %s world\n", n.name)
				} else {
					fmt.Fprintf(&sb, "  thread-affined %s %s\n", n.name, n.access)
				}
				continue
			}
			sb.WriteString("  batch\n")
			for _, n := range s.batch {
				fmt.Fprintf(&sb, "    %s %s", n.name, n.access)
				if len(n.deps) > 0 {
					after := make([]string, len(n.deps))
					for k, d := range n.deps {
						after[k] = s.batch[d].name
					}
					fmt.Fprintf(&sb, " after=[%s]", strings.Join(after, " "))
				}
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
