package decompose

// decompositionPrompt is the prompt template for goal decomposition.
// The final subtask must depend on all prior ids so the pipeline always
// ends with a synthesis pass over the earlier outputs.
const decompositionPrompt = `Break this goal into exactly %d ordered subtasks. Each subtask should be completable by a single model call.

Goal:
%s

Return ONLY a JSON array with this exact structure (no other text):
[
  {
    "id": 1,
    "title": "Short subtask title",
    "description": "Detailed subtask description",
    "dependencies": []
  }
]

Rules:
- Use sequential ids starting at 1
- dependencies lists the ids of earlier subtasks whose output this subtask needs
- A dependency id must always be SMALLER than the subtask's own id
- Subtasks with no dependencies run in parallel, so keep them independent
- The LAST subtask must synthesize the final answer and list EVERY prior id in its dependencies
- Use empty array [] for dependencies when there are none`

// decompositionSystem is the system prompt for the decomposition call.
const decompositionSystem = "You are a planning assistant. You respond with strict JSON only, never with prose."
