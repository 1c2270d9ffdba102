package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/staff/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "assistant",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/staff/pickup/redeem", Action: "POST"},
				{Object: "/staff/attendance/check-in", Action: "POST"},
				{Object: "/staff/attendance/check-out", Action: "POST"},
				{Object: "/staff/attendance/mark", Action: "POST"},
				{Object: "/staff/daily-updates", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "room_leader",
			Inherits: []string{"assistant"},
			Policies: []Policy{
				{Object: "/staff/children", Action: "*"},
				{Object: "/staff/children/:id", Action: "*"},
				{Object: "/staff/children/:id/guardians", Action: "*"},
				{Object: "/staff/daily-updates/:id", Action: "*"},
				{Object: "/staff/announcements", Action: "*"},
				{Object: "/staff/announcements/:id", Action: "*"},
				{Object: "/staff/announcements/:id/publish", Action: "POST"},
				{Object: "/staff/forum/threads", Action: "*"},
				{Object: "/staff/forum/threads/:id", Action: "*"},
				{Object: "/staff/forum/threads/:id/lock", Action: "POST"},
				{Object: "/staff/forum/threads/:id/pin", Action: "POST"},
				{Object: "/staff/forum/threads/:id/replies", Action: "*"},
				{Object: "/staff/forum/replies/:id", Action: "*"},
				{Object: "/staff/notifications", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "manager",
			Inherits: []string{"room_leader"},
			Policies: []Policy{
				{Object: "/staff/*", Action: "*"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)
			if err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)
			if err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			added, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action)
			if err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
			if added {
				changed = true
			}
		}
	}

	if changed {
		return s.saveAndReload()
	}
	return nil
}
