package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store is the per-guild policy document store. All mutators run a
// load→mutate→save cycle under a per-guild lock so concurrent admin
// commands on the same guild cannot drop each other's changes. The
// reconciliation core only ever reads.
type Store interface {
	// Permission levels
	Levels(guildID string) (map[string]map[string]bool, error)
	CreateLevel(guildID, name, copyFrom string) error
	DeleteLevel(guildID, name string) error
	SetLevelFlag(guildID, level, flag string, value *bool) error
	ResetLevels(guildID string) error

	// Category baselines
	CategoryBaselines(guildID string) (map[string]string, error)
	SetCategoryBaseline(guildID, categoryID, level string) error
	ClearCategoryBaseline(guildID, categoryID string) error

	// Access rules
	AccessRules(guildID string) (AccessRulesDoc, error)
	AddAccessRule(guildID string, rule AccessRule) (int, error)
	RemoveAccessRule(guildID string, ruleID int) error
	UpdateAccessRule(guildID string, ruleID int, level *string, mode *RuleMode) (AccessRule, error)

	// Bundles
	Bundles(guildID string) (map[string][]string, error)
	CreateBundle(guildID, name string) error
	DeleteBundle(guildID, name string) error
	AddBundleRole(guildID, bundle, roleID string) error
	RemoveBundleRole(guildID, bundle, roleID string) error

	// Exclusive groups
	ExclusiveGroups(guildID string) (map[string][]string, error)
	CreateExclusiveGroup(guildID, name string) error
	DeleteExclusiveGroup(guildID, name string) error
	AddGroupRole(guildID, group, roleID string) error
	RemoveGroupRole(guildID, group, roleID string) error

	// Bot access scopes
	BotAccess(guildID string) (map[string][]string, error)
	GrantScope(guildID, roleID, scope string) error
	RevokeScope(guildID, roleID, scope string) error

	// Pruning of references to deleted Discord objects
	PruneAccessRules(guildID string, validRoles, validChannels map[string]bool) (int, error)
	PruneCategoryBaselines(guildID string, validCategories map[string]bool) (int, error)
	PruneBundleRoles(guildID string, validRoles map[string]bool) (int, error)
	PruneGroupRoles(guildID string, validRoles map[string]bool) (int, error)
}

// FileStore keeps one JSON file per document per guild under dataDir.
// Writes go to a temp file first and are renamed into place, so a crash
// mid-write cannot corrupt a document.
type FileStore struct {
	dataDir       string
	defaultLevels map[string]map[string]bool
	cache         DocumentCache
	logger        *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileStore creates a FileStore. defaultLevels is returned whenever a
// guild has no stored level document yet; cache may be nil to disable
// the read-through layer.
func NewFileStore(dataDir string, defaultLevels map[string]map[string]bool, cache DocumentCache, logger *slog.Logger) *FileStore {
	return &FileStore{
		dataDir:       dataDir,
		defaultLevels: defaultLevels,
		cache:         cache,
		logger:        logger,
		locks:         make(map[string]*sync.Mutex),
	}
}

var _ Store = (*FileStore)(nil)

func (s *FileStore) guildLock(guildID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[guildID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[guildID] = lock
	}
	return lock
}

func (s *FileStore) docPath(guildID, name string) string {
	return filepath.Join(s.dataDir, guildID, name+".json")
}

func cacheKey(guildID, name string) string {
	return guildID + "/" + name
}

// load reads a document into out. Returns false if no document exists.
func (s *FileStore) load(guildID, name string, out any) (bool, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(cacheKey(guildID, name)); err == nil {
			if err := json.Unmarshal(data, out); err == nil {
				return true, nil
			}
		} else if !cacheMiss(err) {
			s.logger.Warn("document cache read failed",
				slog.String("guild_id", guildID), slog.String("document", name), slog.Any("error", err))
		}
	}

	data, err := os.ReadFile(s.docPath(guildID, name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	if s.cache != nil {
		_ = s.cache.Set(cacheKey(guildID, name), data)
	}
	return true, nil
}

// save writes a document atomically and refreshes the cache entry.
func (s *FileStore) save(guildID, name string, v any) error {
	dir := filepath.Join(s.dataDir, guildID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create guild dir: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, s.docPath(guildID, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(cacheKey(guildID, name), data); err != nil {
			_ = s.cache.Delete(cacheKey(guildID, name))
		}
	}
	return nil
}

// ---------------------------------------------------------------------
// Permission levels
// ---------------------------------------------------------------------

func copyLevels(in map[string]map[string]bool) map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(in))
	for name, flags := range in {
		m := make(map[string]bool, len(flags))
		for f, v := range flags {
			m[f] = v
		}
		out[name] = m
	}
	return out
}

func (s *FileStore) Levels(guildID string) (map[string]map[string]bool, error) {
	levels := make(map[string]map[string]bool)
	found, err := s.load(guildID, docLevels, &levels)
	if err != nil {
		return nil, err
	}
	if !found {
		return copyLevels(s.defaultLevels), nil
	}
	return levels, nil
}

func (s *FileStore) CreateLevel(guildID, name, copyFrom string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	levels, err := s.Levels(guildID)
	if err != nil {
		return err
	}
	if _, ok := levels[name]; ok {
		return fmt.Errorf("level %q: %w", name, ErrAlreadyExists)
	}
	if copyFrom != "" {
		src, ok := levels[copyFrom]
		if !ok {
			return fmt.Errorf("level %q: %w", copyFrom, ErrNotFound)
		}
		dst := make(map[string]bool, len(src))
		for f, v := range src {
			dst[f] = v
		}
		levels[name] = dst
	} else {
		levels[name] = map[string]bool{}
	}
	return s.save(guildID, docLevels, levels)
}

func (s *FileStore) DeleteLevel(guildID, name string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	levels, err := s.Levels(guildID)
	if err != nil {
		return err
	}
	if _, ok := levels[name]; !ok {
		return fmt.Errorf("level %q: %w", name, ErrNotFound)
	}
	delete(levels, name)
	return s.save(guildID, docLevels, levels)
}

// SetLevelFlag sets one flag on a level. value=nil removes the key,
// returning the flag to neutral. Flag names must already be validated
// against the closed enumeration by the caller.
func (s *FileStore) SetLevelFlag(guildID, level, flag string, value *bool) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	levels, err := s.Levels(guildID)
	if err != nil {
		return err
	}
	def, ok := levels[level]
	if !ok {
		return fmt.Errorf("level %q: %w", level, ErrNotFound)
	}
	if value == nil {
		delete(def, flag)
	} else {
		def[flag] = *value
	}
	return s.save(guildID, docLevels, levels)
}

func (s *FileStore) ResetLevels(guildID string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()
	return s.save(guildID, docLevels, copyLevels(s.defaultLevels))
}

// ---------------------------------------------------------------------
// Category baselines
// ---------------------------------------------------------------------

func (s *FileStore) CategoryBaselines(guildID string) (map[string]string, error) {
	baselines := make(map[string]string)
	if _, err := s.load(guildID, docBaselines, &baselines); err != nil {
		return nil, err
	}
	return baselines, nil
}

func (s *FileStore) SetCategoryBaseline(guildID, categoryID, level string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	baselines, err := s.CategoryBaselines(guildID)
	if err != nil {
		return err
	}
	baselines[categoryID] = level
	return s.save(guildID, docBaselines, baselines)
}

func (s *FileStore) ClearCategoryBaseline(guildID, categoryID string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	baselines, err := s.CategoryBaselines(guildID)
	if err != nil {
		return err
	}
	delete(baselines, categoryID)
	return s.save(guildID, docBaselines, baselines)
}

// ---------------------------------------------------------------------
// Access rules
// ---------------------------------------------------------------------

func (s *FileStore) AccessRules(guildID string) (AccessRulesDoc, error) {
	doc := AccessRulesDoc{NextID: 1}
	if _, err := s.load(guildID, docRules, &doc); err != nil {
		return AccessRulesDoc{}, err
	}
	if doc.NextID < 1 {
		doc.NextID = 1
	}
	return doc, nil
}

// AddAccessRule assigns the next ID and appends the rule. Returns the
// assigned ID.
func (s *FileStore) AddAccessRule(guildID string, rule AccessRule) (int, error) {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.AccessRules(guildID)
	if err != nil {
		return 0, err
	}
	rule.ID = doc.NextID
	doc.NextID++
	doc.Rules = append(doc.Rules, rule)
	if err := s.save(guildID, docRules, doc); err != nil {
		return 0, err
	}
	return rule.ID, nil
}

func (s *FileStore) RemoveAccessRule(guildID string, ruleID int) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.AccessRules(guildID)
	if err != nil {
		return err
	}
	kept := doc.Rules[:0]
	for _, r := range doc.Rules {
		if r.ID != ruleID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(doc.Rules) {
		return fmt.Errorf("access rule #%d: %w", ruleID, ErrNotFound)
	}
	doc.Rules = kept
	return s.save(guildID, docRules, doc)
}

func (s *FileStore) UpdateAccessRule(guildID string, ruleID int, level *string, mode *RuleMode) (AccessRule, error) {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.AccessRules(guildID)
	if err != nil {
		return AccessRule{}, err
	}
	for i := range doc.Rules {
		if doc.Rules[i].ID != ruleID {
			continue
		}
		if level != nil {
			doc.Rules[i].Level = *level
		}
		if mode != nil {
			doc.Rules[i].Mode = *mode
		}
		if err := s.save(guildID, docRules, doc); err != nil {
			return AccessRule{}, err
		}
		return doc.Rules[i], nil
	}
	return AccessRule{}, fmt.Errorf("access rule #%d: %w", ruleID, ErrNotFound)
}

// ---------------------------------------------------------------------
// Bundles
// ---------------------------------------------------------------------

func (s *FileStore) Bundles(guildID string) (map[string][]string, error) {
	bundles := make(map[string][]string)
	if _, err := s.load(guildID, docBundles, &bundles); err != nil {
		return nil, err
	}
	return bundles, nil
}

func (s *FileStore) CreateBundle(guildID, name string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	bundles, err := s.Bundles(guildID)
	if err != nil {
		return err
	}
	if _, ok := bundles[name]; ok {
		return fmt.Errorf("bundle %q: %w", name, ErrAlreadyExists)
	}
	bundles[name] = []string{}
	return s.save(guildID, docBundles, bundles)
}

func (s *FileStore) DeleteBundle(guildID, name string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	bundles, err := s.Bundles(guildID)
	if err != nil {
		return err
	}
	if _, ok := bundles[name]; !ok {
		return fmt.Errorf("bundle %q: %w", name, ErrNotFound)
	}
	delete(bundles, name)
	return s.save(guildID, docBundles, bundles)
}

// AddBundleRole appends a role to a bundle. Bundles have set semantics:
// adding a role that is already present is rejected.
func (s *FileStore) AddBundleRole(guildID, bundle, roleID string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	bundles, err := s.Bundles(guildID)
	if err != nil {
		return err
	}
	roles, ok := bundles[bundle]
	if !ok {
		return fmt.Errorf("bundle %q: %w", bundle, ErrNotFound)
	}
	for _, r := range roles {
		if r == roleID {
			return fmt.Errorf("bundle %q role %s: %w", bundle, roleID, ErrDuplicateRole)
		}
	}
	bundles[bundle] = append(roles, roleID)
	return s.save(guildID, docBundles, bundles)
}

func (s *FileStore) RemoveBundleRole(guildID, bundle, roleID string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	bundles, err := s.Bundles(guildID)
	if err != nil {
		return err
	}
	roles, ok := bundles[bundle]
	if !ok {
		return fmt.Errorf("bundle %q: %w", bundle, ErrNotFound)
	}
	bundles[bundle] = removeString(roles, roleID)
	return s.save(guildID, docBundles, bundles)
}

// ---------------------------------------------------------------------
// Exclusive groups
// ---------------------------------------------------------------------

func (s *FileStore) ExclusiveGroups(guildID string) (map[string][]string, error) {
	groups := make(map[string][]string)
	if _, err := s.load(guildID, docGroups, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *FileStore) CreateExclusiveGroup(guildID, name string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	groups, err := s.ExclusiveGroups(guildID)
	if err != nil {
		return err
	}
	if _, ok := groups[name]; ok {
		return fmt.Errorf("exclusive group %q: %w", name, ErrAlreadyExists)
	}
	groups[name] = []string{}
	return s.save(guildID, docGroups, groups)
}

func (s *FileStore) DeleteExclusiveGroup(guildID, name string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	groups, err := s.ExclusiveGroups(guildID)
	if err != nil {
		return err
	}
	if _, ok := groups[name]; !ok {
		return fmt.Errorf("exclusive group %q: %w", name, ErrNotFound)
	}
	delete(groups, name)
	return s.save(guildID, docGroups, groups)
}

// AddGroupRole enforces the invariant that a role belongs to at most one
// exclusive group: adding a role that is already in a different group is
// rejected until it is removed there first.
func (s *FileStore) AddGroupRole(guildID, group, roleID string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	groups, err := s.ExclusiveGroups(guildID)
	if err != nil {
		return err
	}
	roles, ok := groups[group]
	if !ok {
		return fmt.Errorf("exclusive group %q: %w", group, ErrNotFound)
	}
	for name, members := range groups {
		for _, r := range members {
			if r != roleID {
				continue
			}
			if name == group {
				return fmt.Errorf("group %q role %s: %w", group, roleID, ErrDuplicateRole)
			}
			return fmt.Errorf("role %s is in group %q: %w", roleID, name, ErrRoleInOtherGroup)
		}
	}
	groups[group] = append(roles, roleID)
	return s.save(guildID, docGroups, groups)
}

func (s *FileStore) RemoveGroupRole(guildID, group, roleID string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	groups, err := s.ExclusiveGroups(guildID)
	if err != nil {
		return err
	}
	roles, ok := groups[group]
	if !ok {
		return fmt.Errorf("exclusive group %q: %w", group, ErrNotFound)
	}
	groups[group] = removeString(roles, roleID)
	return s.save(guildID, docGroups, groups)
}

// ---------------------------------------------------------------------
// Bot access scopes
// ---------------------------------------------------------------------

func (s *FileStore) BotAccess(guildID string) (map[string][]string, error) {
	access := make(map[string][]string)
	if _, err := s.load(guildID, docBotAccess, &access); err != nil {
		return nil, err
	}
	return access, nil
}

func (s *FileStore) GrantScope(guildID, roleID, scope string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	access, err := s.BotAccess(guildID)
	if err != nil {
		return err
	}
	for _, sc := range access[roleID] {
		if sc == scope {
			return nil
		}
	}
	access[roleID] = append(access[roleID], scope)
	sort.Strings(access[roleID])
	return s.save(guildID, docBotAccess, access)
}

func (s *FileStore) RevokeScope(guildID, roleID, scope string) error {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	access, err := s.BotAccess(guildID)
	if err != nil {
		return err
	}
	access[roleID] = removeString(access[roleID], scope)
	if len(access[roleID]) == 0 {
		delete(access, roleID)
	}
	return s.save(guildID, docBotAccess, access)
}

// ---------------------------------------------------------------------
// Pruning
// ---------------------------------------------------------------------

// PruneAccessRules deletes rules whose role or target no longer exists.
// Returns the number of rules removed.
func (s *FileStore) PruneAccessRules(guildID string, validRoles, validChannels map[string]bool) (int, error) {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.AccessRules(guildID)
	if err != nil {
		return 0, err
	}
	kept := doc.Rules[:0]
	for _, r := range doc.Rules {
		if validRoles[r.RoleID] && validChannels[r.TargetID] {
			kept = append(kept, r)
		}
	}
	removed := len(doc.Rules) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	doc.Rules = kept
	return removed, s.save(guildID, docRules, doc)
}

func (s *FileStore) PruneCategoryBaselines(guildID string, validCategories map[string]bool) (int, error) {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	baselines, err := s.CategoryBaselines(guildID)
	if err != nil {
		return 0, err
	}
	removed := 0
	for categoryID := range baselines {
		if !validCategories[categoryID] {
			delete(baselines, categoryID)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(guildID, docBaselines, baselines)
}

func (s *FileStore) PruneBundleRoles(guildID string, validRoles map[string]bool) (int, error) {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	bundles, err := s.Bundles(guildID)
	if err != nil {
		return 0, err
	}
	removed := pruneRoleLists(bundles, validRoles)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(guildID, docBundles, bundles)
}

func (s *FileStore) PruneGroupRoles(guildID string, validRoles map[string]bool) (int, error) {
	lock := s.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	groups, err := s.ExclusiveGroups(guildID)
	if err != nil {
		return 0, err
	}
	removed := pruneRoleLists(groups, validRoles)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(guildID, docGroups, groups)
}

func pruneRoleLists(lists map[string][]string, validRoles map[string]bool) int {
	removed := 0
	for name, roles := range lists {
		kept := roles[:0]
		for _, r := range roles {
			if validRoles[r] {
				kept = append(kept, r)
			} else {
				removed++
			}
		}
		lists[name] = kept
	}
	return removed
}

func removeString(list []string, target string) []string {
	kept := list[:0]
	for _, s := range list {
		if s != target {
			kept = append(kept, s)
		}
	}
	return kept
}
