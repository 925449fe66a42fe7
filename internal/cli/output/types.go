package output

// LoadOutput is the JSON result of the load command.
type LoadOutput struct {
	RunID        string `json:"run_id"`
	Input        string `json:"input"`
	Sheet        string `json:"sheet"`
	SourceColumn string `json:"source_column"`
	TargetColumn string `json:"target_column"`
	Backend      string `json:"backend"`
	Table        string `json:"table"`
	Rows         int    `json:"rows"`
	Read         int    `json:"read"`
	Inserted     int    `json:"inserted"`
	Total        int64  `json:"total"`
	FallbackUsed bool   `json:"fallback_used"`
}

// TrainOutput is the JSON result of the train command.
type TrainOutput struct {
	Pairs         int      `json:"pairs"`
	TrainRows     int      `json:"train_rows"`
	EvalRows      int      `json:"eval_rows"`
	OutputDir     string   `json:"output_dir"`
	TrainDataset  string   `json:"train_dataset"`
	EvalDataset   string   `json:"eval_dataset,omitempty"`
	Manifest      string   `json:"manifest"`
	Trainer       string   `json:"trainer"`
	TokenizerFile string   `json:"tokenizer_config,omitempty"`
	Command       []string `json:"command"`
	Trained       bool     `json:"trained"`
}

// CountOutput is the JSON result of the count command.
type CountOutput struct {
	Backend string `json:"backend"`
	Table   string `json:"table"`
	Rows    int64  `json:"rows"`
}

// PairInfo is one previewed translation pair.
type PairInfo struct {
	Marathi string `json:"marathi"`
	English string `json:"english"`
}

// InspectOutput is the JSON result of the inspect command.
type InspectOutput struct {
	Input        string     `json:"input"`
	Sheet        string     `json:"sheet"`
	SourceColumn string     `json:"source_column"`
	TargetColumn string     `json:"target_column"`
	Rows         int        `json:"rows"`
	Pairs        int        `json:"pairs"`
	Preview      []PairInfo `json:"preview"`
}

// ErrorOutput is written in JSON mode when a command fails.
type ErrorOutput struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}
