package storage

// TargetKind tags what an access rule points at.
type TargetKind string

const (
	TargetCategory TargetKind = "category"
	TargetChannel  TargetKind = "channel"
)

// RuleMode selects whether a rule grants a level or blocks it.
type RuleMode string

const (
	ModeAllow RuleMode = "Allow"
	ModeDeny  RuleMode = "Deny"
)

// AccessRule grants (or blocks) a permission level for one role on one
// category or channel. IDs are unique per guild and strictly increasing,
// which is what makes the compiler's last-write-wins tie-break stable.
type AccessRule struct {
	ID         int        `json:"id"`
	RoleID     string     `json:"role_id"`
	TargetKind TargetKind `json:"target_kind"`
	TargetID   string     `json:"target_id"`
	Level      string     `json:"level"`
	Mode       RuleMode   `json:"mode"`
}

// AccessRulesDoc is the per-guild access rule document.
type AccessRulesDoc struct {
	NextID int          `json:"next_id"`
	Rules  []AccessRule `json:"rules"`
}

// Document names, one JSON file each under <data_dir>/<guild_id>/.
const (
	docLevels    = "permission_levels"
	docBaselines = "category_baselines"
	docRules     = "access_rules"
	docBundles   = "bundles"
	docGroups    = "exclusive_groups"
	docBotAccess = "bot_access"
)
