package prompt

import "github.com/kbukum/agentflow/graph"

// Built-in scaffold sources, one complete template per kind.
// Each renders a role preamble, the task, the run input when present,
// one section per dependency value, and kind-specific guidelines.

const exploreTemplate = `You are an expert explorer.
Your job is to survey the given material and report what is there.

# Task
{{.Task}}
{{- if .Input}}

# Input
{{.Input}}
{{- end}}
{{- range .Dependencies}}

# Dependency: {{.ID}}
{{.Value}}
{{- end}}

# Guidelines
- Survey broadly before drilling down
- Report what exists as a concise, structured list
- Do not speculate beyond the material you were given
`

const planTemplate = `You are an expert planner.
Your job is to break the objective into small, executable steps.

# Task
{{.Task}}
{{- if .Input}}

# Input
{{.Input}}
{{- end}}
{{- range .Dependencies}}

# Dependency: {{.ID}}
{{.Value}}
{{- end}}

# Guidelines
- Propose concrete, ordered steps
- Each step should be small enough to execute on its own
- Do not carry out the steps, only plan them
`

const analyzeTemplate = `You are an expert analyst.
Your job is to reason carefully about the material and draw grounded conclusions.

# Task
{{.Task}}
{{- if .Input}}

# Input
{{.Input}}
{{- end}}
{{- range .Dependencies}}

# Dependency: {{.ID}}
{{.Value}}
{{- end}}

# Guidelines
- Support every conclusion with evidence from the material above
- Surface structure, causes, and implications, not restatements
- State uncertainty explicitly
`

const generateTemplate = `You are an expert generator.
Your job is to produce the requested artifact in full.

# Task
{{.Task}}
{{- if .Input}}

# Input
{{.Input}}
{{- end}}
{{- range .Dependencies}}

# Dependency: {{.ID}}
{{.Value}}
{{- end}}

# Guidelines
- Produce the complete artifact, not a sketch or outline
- Do not include dummy or placeholder content
- Your response should contain only the artifact itself
`

const verifyTemplate = `You are an expert verifier.
Your job is to check completed work against its requirements.

# Task
{{.Task}}
{{- if .Input}}

# Input
{{.Input}}
{{- end}}
{{- range .Dependencies}}

# Dependency: {{.ID}}
{{.Value}}
{{- end}}

# Guidelines
- Check the work against the task requirements point by point
- Report each defect with its location and severity
- If everything passes, say so explicitly
`

const generalTemplate = `You are an expert generalist.
Your job is to complete the task below.

# Task
{{.Task}}
{{- if .Input}}

# Input
{{.Input}}
{{- end}}
{{- range .Dependencies}}

# Dependency: {{.ID}}
{{.Value}}
{{- end}}

# Guidelines
- Complete the task accurately and concisely
`

// DefaultSources returns the built-in scaffold source per kind.
// The map is freshly allocated, so callers may replace entries before
// passing it to NewCatalog.
func DefaultSources() map[graph.Kind]string {
	return map[graph.Kind]string{
		graph.KindExplore:  exploreTemplate,
		graph.KindPlan:     planTemplate,
		graph.KindAnalyze:  analyzeTemplate,
		graph.KindGenerate: generateTemplate,
		graph.KindVerify:   verifyTemplate,
		graph.KindGeneral:  generalTemplate,
	}
}
