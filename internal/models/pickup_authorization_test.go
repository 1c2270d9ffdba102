package models

import (
	"testing"
	"time"

	"github.com/FeexSystems/Rainbow-childcare-sub000/internal/constants"
)

func TestPickupAuthorizationStatusAt(t *testing.T) {
	issued := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	expires := issued.Add(24 * time.Hour)

	base := PickupAuthorization{
		UUID:      "u-1",
		Code:      "PK0123456789abcdef0123456789abcdef",
		ChildID:   1,
		IssuedAt:  issued,
		ExpiresAt: expires,
	}

	if got := base.StatusAt(issued); got != constants.PickupStatusActive {
		t.Fatalf("刚签发状态错误: got=%s", got)
	}
	if got := base.StatusAt(expires.Add(-time.Second)); got != constants.PickupStatusActive {
		t.Fatalf("过期前一秒状态错误: got=%s", got)
	}
	if got := base.StatusAt(expires); got != constants.PickupStatusExpired {
		t.Fatalf("到达过期时刻状态错误: got=%s", got)
	}
	if got := base.StatusAt(expires.Add(time.Hour)); got != constants.PickupStatusExpired {
		t.Fatalf("过期后状态错误: got=%s", got)
	}
}

func TestPickupAuthorizationStatusAtRedeemed(t *testing.T) {
	issued := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	expires := issued.Add(24 * time.Hour)
	redeemed := issued.Add(6 * time.Hour)

	auth := PickupAuthorization{
		IssuedAt:   issued,
		ExpiresAt:  expires,
		RedeemedAt: &redeemed,
	}

	// 已核销的码在过期后依然是 redeemed，不会回退成 expired
	for _, now := range []time.Time{redeemed, expires, expires.Add(48 * time.Hour)} {
		if got := auth.StatusAt(now); got != constants.PickupStatusRedeemed {
			t.Fatalf("核销后状态错误: now=%s got=%s", now, got)
		}
	}
}

func TestPickupAuthorizationStatusAtSuperseded(t *testing.T) {
	issued := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	expires := issued.Add(24 * time.Hour)
	superseded := issued.Add(time.Hour)

	auth := PickupAuthorization{
		IssuedAt:     issued,
		ExpiresAt:    expires,
		SupersededAt: &superseded,
	}

	if got := auth.StatusAt(issued.Add(2 * time.Hour)); got != constants.PickupStatusExpired {
		t.Fatalf("被顶替后状态错误: got=%s", got)
	}
	if auth.IsRedeemableAt(issued.Add(2 * time.Hour)) {
		t.Fatalf("被顶替的码不应允许核销")
	}
}

func TestPickupAuthorizationRemainingSeconds(t *testing.T) {
	issued := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	expires := issued.Add(24 * time.Hour)

	auth := PickupAuthorization{
		IssuedAt:  issued,
		ExpiresAt: expires,
	}

	if got := auth.RemainingSeconds(issued); got != 24*3600 {
		t.Fatalf("剩余秒数错误: got=%d", got)
	}
	if got := auth.RemainingSeconds(expires); got != 0 {
		t.Fatalf("过期时刻剩余秒数应为 0: got=%d", got)
	}
	if got := auth.RemainingSeconds(expires.Add(time.Hour)); got != 0 {
		t.Fatalf("过期后剩余秒数应为 0: got=%d", got)
	}
}
