package task

// EntityName identifies tasks in repositories and not-found errors.
const EntityName = "task"

// Model is the persisted form of a task. Data sources are stored by id in
// declaration order and resolved through a datasource.Manager on load.
type Model struct {
	ID         string   `json:"id"`
	ConfigName string   `json:"config_name"`
	InputIDs   []string `json:"input_ids"`
	OutputIDs  []string `json:"output_ids"`
	Function   string   `json:"function"`
}

// ToModel converts t to its persisted form.
func ToModel(t *Task) Model {
	return Model{
		ID:         string(t.id),
		ConfigName: t.configName,
		InputIDs:   t.input.IDs(),
		OutputIDs:  t.output.IDs(),
		Function:   t.function,
	}
}
