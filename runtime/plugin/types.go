package plugin

// Input is the map form of task arguments.
type Input = map[string]any

// Output is the map form of task results.
type Output = map[string]any
