package tools

// DiceRollInput represents the MCP tool input for dice expressions.
type DiceRollInput struct {
	Expression string `json:"expression" jsonschema:"dice expression such as 4d6kh3+2"`
	Seed       *int64 `json:"seed,omitempty" jsonschema:"optional seed for a reproducible roll"`
	Locale     string `json:"locale,omitempty" jsonschema:"optional locale for the text breakdown"`
}

// DiceTerm represents one rolled dice term.
type DiceTerm struct {
	Text    string `json:"text" jsonschema:"term as written"`
	Count   int    `json:"count" jsonschema:"number of dice"`
	Faces   int    `json:"faces" jsonschema:"faces per die"`
	Rolls   []int  `json:"rolls" jsonschema:"every die in roll order"`
	Kept    []int  `json:"kept" jsonschema:"dice that count toward the total"`
	Dropped []int  `json:"dropped" jsonschema:"dice discarded by keep rules"`
	Total   string `json:"total" jsonschema:"exact sum of the kept dice"`
}

// DiceRollResult represents the MCP tool output for dice expressions.
type DiceRollResult struct {
	Expression string     `json:"expression" jsonschema:"expression as submitted"`
	Evaluated  string     `json:"evaluated" jsonschema:"expression with every term replaced by its kept dice"`
	Value      string     `json:"value" jsonschema:"exact result"`
	Terms      []DiceTerm `json:"terms" jsonschema:"per term breakdown"`
	Text       string     `json:"text" jsonschema:"localized breakdown"`
}

// PoolRollInput represents the MCP tool input for pool rolls. Every numeric
// field is an arithmetic expression.
type PoolRollInput struct {
	Pool           string `json:"pool" jsonschema:"pool size expression, at least 1"`
	Hunger         string `json:"hunger,omitempty" jsonschema:"hunger dice expression, defaults to 0"`
	Difficulty     string `json:"difficulty,omitempty" jsonschema:"difficulty expression, defaults to 0"`
	PriorSuccesses string `json:"prior_successes,omitempty" jsonschema:"successes carried from an earlier roll, defaults to 0"`
	Seed           *int64 `json:"seed,omitempty" jsonschema:"optional seed for a reproducible roll"`
	Locale         string `json:"locale,omitempty" jsonschema:"optional locale for the text breakdown"`
}

// PoolRollResult represents the MCP tool output for pool rolls.
type PoolRollResult struct {
	Standard        []int  `json:"standard" jsonschema:"standard pool dice"`
	Hunger          []int  `json:"hunger" jsonschema:"hunger pool dice"`
	Successes       int    `json:"successes" jsonschema:"total successes"`
	Difficulty      int    `json:"difficulty" jsonschema:"difficulty target"`
	MeetsDifficulty bool   `json:"meets_difficulty" jsonschema:"whether successes reached the difficulty"`
	Margin          int    `json:"margin" jsonschema:"successes minus difficulty"`
	Outcome         string `json:"outcome" jsonschema:"outcome enum name"`
	Text            string `json:"text" jsonschema:"localized breakdown"`
	Rendered        bool   `json:"rendered" jsonschema:"whether a dice image is attached"`
}

// PoolExplainInput represents the MCP tool input for explaining known dice.
type PoolExplainInput struct {
	Standard       []int `json:"standard" jsonschema:"standard pool dice, 1 to 10"`
	Hunger         []int `json:"hunger,omitempty" jsonschema:"hunger pool dice, 1 to 10"`
	Difficulty     int   `json:"difficulty,omitempty" jsonschema:"difficulty target"`
	PriorSuccesses int   `json:"prior_successes,omitempty" jsonschema:"successes carried from an earlier roll"`
}

// ExplainStep represents one deterministic evaluation step.
type ExplainStep struct {
	Code    string         `json:"code" jsonschema:"step identifier"`
	Message string         `json:"message" jsonschema:"step summary"`
	Data    map[string]any `json:"data" jsonschema:"values derived in this step"`
}

// PoolExplainResult represents the MCP tool output for explanations.
type PoolExplainResult struct {
	Outcome         string        `json:"outcome" jsonschema:"outcome enum name"`
	Successes       int           `json:"successes" jsonschema:"total successes"`
	MeetsDifficulty bool          `json:"meets_difficulty" jsonschema:"whether successes reached the difficulty"`
	Margin          int           `json:"margin" jsonschema:"successes minus difficulty"`
	RulesVersion    string        `json:"rules_version" jsonschema:"semantic ruleset version"`
	Steps           []ExplainStep `json:"steps" jsonschema:"ordered evaluation steps"`
}

// RulesVersionInput represents the MCP tool input for ruleset metadata.
type RulesVersionInput struct{}

// RulesVersionResult represents the MCP tool output for ruleset metadata.
type RulesVersionResult struct {
	System         string   `json:"system" jsonschema:"game system name"`
	Module         string   `json:"module" jsonschema:"ruleset module name"`
	RulesVersion   string   `json:"rules_version" jsonschema:"semantic ruleset version"`
	DiceModel      string   `json:"dice_model" jsonschema:"dice model description"`
	SuccessFormula string   `json:"success_formula" jsonschema:"success calculation"`
	CritRule       string   `json:"crit_rule" jsonschema:"critical rule for the active variant"`
	DifficultyRule string   `json:"difficulty_rule" jsonschema:"difficulty handling rule"`
	Outcomes       []string `json:"outcomes" jsonschema:"supported outcome enums"`
}

// SheetProfileInput represents the MCP tool input for profile management.
type SheetProfileInput struct {
	CommunityID string `json:"community_id,omitempty" jsonschema:"community identifier (required)"`
	UserID      string `json:"user_id,omitempty" jsonschema:"user identifier (required)"`
	Locale      string `json:"locale,omitempty" jsonschema:"optional locale for the text reply"`
	Name        string `json:"name" jsonschema:"profile name, one word starting with a letter"`
}

// SheetProfileResult represents the MCP tool output for profile management.
type SheetProfileResult struct {
	Name      string `json:"name" jsonschema:"profile name"`
	IsDefault bool   `json:"is_default" jsonschema:"whether the profile is the default"`
	Text      string `json:"text" jsonschema:"localized confirmation"`
}

// SheetQueryInput represents the MCP tool input for alias expressions.
type SheetQueryInput struct {
	CommunityID string `json:"community_id,omitempty" jsonschema:"community identifier (required)"`
	UserID      string `json:"user_id,omitempty" jsonschema:"user identifier (required)"`
	Locale      string `json:"locale,omitempty" jsonschema:"optional locale for the text reply"`
	Expression  string `json:"expression" jsonschema:"arithmetic over attribute aliases, e.g. for+dex"`
}

// SheetBinding represents one alias substituted during resolution.
type SheetBinding struct {
	Text      string `json:"text" jsonschema:"matched input"`
	Profile   string `json:"profile,omitempty" jsonschema:"explicit profile scope"`
	Attribute string `json:"attribute" jsonschema:"canonical attribute name"`
	Value     int    `json:"value" jsonschema:"stored value"`
}

// SheetQueryResult represents the MCP tool output for alias expressions.
type SheetQueryResult struct {
	Display   string         `json:"display" jsonschema:"input with canonical attribute names"`
	Evaluated string         `json:"evaluated" jsonschema:"numeric expression that was evaluated"`
	Value     string         `json:"value" jsonschema:"exact result"`
	Profile   string         `json:"profile,omitempty" jsonschema:"default profile used for unscoped aliases"`
	Bindings  []SheetBinding `json:"bindings" jsonschema:"aliases replaced by stored values"`
	Text      string         `json:"text" jsonschema:"localized reply"`
}

// SheetUpdateInput represents the MCP tool input for attribute writes.
type SheetUpdateInput struct {
	CommunityID string `json:"community_id,omitempty" jsonschema:"community identifier (required)"`
	UserID      string `json:"user_id,omitempty" jsonschema:"user identifier (required)"`
	Locale      string `json:"locale,omitempty" jsonschema:"optional locale for the text reply"`
	Target      string `json:"target" jsonschema:"attribute alias, optionally scoped as profile\\alias"`
	Expression  string `json:"expression" jsonschema:"new value expression, may reference attributes"`
}

// SheetUpdateResult represents the MCP tool output for attribute writes.
type SheetUpdateResult struct {
	Profile   string `json:"profile" jsonschema:"profile written"`
	Attribute string `json:"attribute" jsonschema:"canonical attribute name"`
	Previous  *int   `json:"previous,omitempty" jsonschema:"value before the write"`
	Value     int    `json:"value" jsonschema:"value written"`
	Text      string `json:"text" jsonschema:"localized reply"`
}

// SheetListInput represents the MCP tool input for listing attributes.
type SheetListInput struct {
	CommunityID string `json:"community_id,omitempty" jsonschema:"community identifier (required)"`
	UserID      string `json:"user_id,omitempty" jsonschema:"user identifier (required)"`
	Locale      string `json:"locale,omitempty" jsonschema:"optional locale for the text reply"`
	Profile     string `json:"profile,omitempty" jsonschema:"profile name, defaults to the default profile"`
	Filter      string `json:"filter,omitempty" jsonschema:"optional AIP-160 filter over name and value"`
}

// SheetAttribute represents one stored attribute.
type SheetAttribute struct {
	Name  string `json:"name" jsonschema:"canonical attribute name"`
	Value int    `json:"value" jsonschema:"stored value"`
}

// SheetListResult represents the MCP tool output for listing attributes.
type SheetListResult struct {
	Profile    string           `json:"profile" jsonschema:"profile listed"`
	Attributes []SheetAttribute `json:"attributes" jsonschema:"attributes in name order"`
	Text       string           `json:"text" jsonschema:"localized reply"`
}

// SheetImportInput represents the MCP tool input for bulk attribute imports.
type SheetImportInput struct {
	CommunityID string         `json:"community_id,omitempty" jsonschema:"community identifier (required)"`
	UserID      string         `json:"user_id,omitempty" jsonschema:"user identifier (required)"`
	Locale      string         `json:"locale,omitempty" jsonschema:"optional locale for the text reply"`
	Profile     string         `json:"profile,omitempty" jsonschema:"profile name, defaults to the default profile"`
	Values      map[string]int `json:"values" jsonschema:"attribute values keyed by alias; one unknown alias rejects the batch"`
}

// SheetImportResult represents the MCP tool output for bulk attribute imports.
type SheetImportResult struct {
	Profile    string           `json:"profile" jsonschema:"profile written"`
	Imported   int              `json:"imported" jsonschema:"number of values submitted"`
	Attributes []SheetAttribute `json:"attributes" jsonschema:"profile attributes after the import"`
	Text       string           `json:"text" jsonschema:"localized reply"`
}

// SheetProfilesInput represents the MCP tool input for listing profiles.
type SheetProfilesInput struct {
	CommunityID string `json:"community_id,omitempty" jsonschema:"community identifier (required)"`
	UserID      string `json:"user_id,omitempty" jsonschema:"user identifier (required)"`
	Locale      string `json:"locale,omitempty" jsonschema:"optional locale for the text reply"`
}

// SheetProfilesResult represents the MCP tool output for listing profiles.
type SheetProfilesResult struct {
	Profiles []SheetProfileResult `json:"profiles" jsonschema:"profiles in name order"`
	Text     string               `json:"text" jsonschema:"localized reply"`
}
