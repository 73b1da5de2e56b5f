package engine

import (
	"Fincrew/pkg/types"
)

// TaskGraph is the validated prerequisite DAG of a crew's tasks. Nodes keep
// their declaration order, which decides between tasks that are ready at the
// same time.
type TaskGraph struct {
	ids      []string
	index    map[string]int
	incoming [][]int // prerequisites, in listed order
	outgoing [][]int // dependents, ascending
	order    []int
}

// NewTaskGraph builds and validates the graph. It rejects empty or duplicate
// task IDs, unknown or repeated prerequisites, self-dependencies and cycles.
func NewTaskGraph(tasks []types.Task) (*TaskGraph, error) {
	if len(tasks) == 0 {
		return nil, invalidf("no tasks")
	}

	g := &TaskGraph{
		ids:      make([]string, 0, len(tasks)),
		index:    make(map[string]int, len(tasks)),
		incoming: make([][]int, len(tasks)),
		outgoing: make([][]int, len(tasks)),
	}

	for i, t := range tasks {
		if t.ID == "" {
			return nil, invalidf("task %d has no id", i+1)
		}
		if _, exists := g.index[t.ID]; exists {
			return nil, invalidf("duplicate task id: %q", t.ID)
		}
		g.index[t.ID] = i
		g.ids = append(g.ids, t.ID)
	}

	for i, t := range tasks {
		seen := make(map[int]bool, len(t.Context))
		for _, dep := range t.Context {
			j, ok := g.index[dep]
			if !ok {
				return nil, invalidf("task %q depends on unknown task %q", t.ID, dep)
			}
			if j == i {
				return nil, invalidf("task %q depends on itself", t.ID)
			}
			if seen[j] {
				return nil, invalidf("task %q lists %q twice", t.ID, dep)
			}
			seen[j] = true
			g.incoming[i] = append(g.incoming[i], j)
			g.outgoing[j] = append(g.outgoing[j], i)
		}
	}

	g.order = g.topoOrder()
	if len(g.order) != len(g.ids) {
		return nil, cycleError(g.findCycle())
	}

	return g, nil
}

// topoOrder runs Kahn's algorithm, always taking the earliest-declared ready
// task. Nodes on a cycle never become ready and are left out.
func (g *TaskGraph) topoOrder() []int {
	indeg := make([]int, len(g.ids))
	for i := range g.incoming {
		indeg[i] = len(g.incoming[i])
	}
	done := make([]bool, len(g.ids))

	out := make([]int, 0, len(g.ids))
	for len(out) < len(g.ids) {
		next := -1
		for i := range indeg {
			if !done[i] && indeg[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			break
		}
		done[next] = true
		out = append(out, next)
		for _, m := range g.outgoing[next] {
			indeg[m]--
		}
	}
	return out
}

// findCycle returns one cycle as a closed path of task IDs
func (g *TaskGraph) findCycle() []string {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(g.ids))
	stack := []int{}
	var cycle []int

	var visit func(u int) bool
	visit = func(u int) bool {
		color[u] = gray
		stack = append(stack, u)
		for _, v := range g.outgoing[u] {
			switch color[v] {
			case white:
				if visit(v) {
					return true
				}
			case gray:
				for k := len(stack) - 1; k >= 0; k-- {
					if stack[k] == v {
						cycle = append(append([]int{}, stack[k:]...), v)
						return true
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[u] = black
		return false
	}

	for i := range g.ids {
		if color[i] == white && visit(i) {
			break
		}
	}

	path := make([]string, 0, len(cycle))
	for _, i := range cycle {
		path = append(path, g.ids[i])
	}
	return path
}

// TopologicalOrder returns the task IDs in execution order
func (g *TaskGraph) TopologicalOrder() []string {
	out := make([]string, 0, len(g.order))
	for _, i := range g.order {
		out = append(out, g.ids[i])
	}
	return out
}

// Prerequisites returns the IDs a task depends on, in listed order
func (g *TaskGraph) Prerequisites(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.incoming[i]))
	for _, j := range g.incoming[i] {
		out = append(out, g.ids[j])
	}
	return out
}

// Dependents returns the IDs of tasks that list id as a prerequisite
func (g *TaskGraph) Dependents(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.outgoing[i]))
	for _, j := range g.outgoing[i] {
		out = append(out, g.ids[j])
	}
	return out
}

// Waves groups tasks into rounds: every task's prerequisites are in an
// earlier wave. Within a wave tasks keep declaration order.
func (g *TaskGraph) Waves() [][]string {
	depth := make([]int, len(g.ids))
	maxDepth := 0
	for _, u := range g.order {
		for _, p := range g.incoming[u] {
			if depth[p]+1 > depth[u] {
				depth[u] = depth[p] + 1
			}
		}
		if depth[u] > maxDepth {
			maxDepth = depth[u]
		}
	}

	waves := make([][]string, maxDepth+1)
	for i, id := range g.ids {
		waves[depth[i]] = append(waves[depth[i]], id)
	}
	return waves
}

// Ready returns the tasks not yet in done whose prerequisites all are, in
// declaration order.
func (g *TaskGraph) Ready(done map[string]bool) []string {
	var ready []string
	for i, id := range g.ids {
		if done[id] {
			continue
		}
		ok := true
		for _, p := range g.incoming[i] {
			if !done[g.ids[p]] {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, id)
		}
	}
	return ready
}

func (g *TaskGraph) Len() int { return len(g.ids) }
