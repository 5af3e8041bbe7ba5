package enums

import "testing"

func TestParseSubscriptionStatus(t *testing.T) {
	for _, raw := range []string{"active", "canceled", "past_due"} {
		status, err := ParseSubscriptionStatus(raw)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", raw, err)
		}
		if !status.IsValid() || status.String() != raw {
			t.Fatalf("%s: round trip failed", raw)
		}
	}
	if _, err := ParseSubscriptionStatus("trialing"); err == nil {
		t.Fatal("expected trialing to be rejected")
	}
}

func TestParseWorkflowType(t *testing.T) {
	if typ, err := ParseWorkflowType("notification"); err != nil || typ != WorkflowTypeNotification {
		t.Fatalf("unexpected result %v %v", typ, err)
	}
	if _, err := ParseWorkflowType("webhook"); err == nil {
		t.Fatal("expected webhook to be unsupported")
	}
	if WorkflowType("").IsValid() {
		t.Fatal("empty type must be invalid")
	}
}

func TestSubscriptionStatusScanAndValue(t *testing.T) {
	var s SubscriptionStatus
	if err := s.Scan([]byte("canceled")); err != nil || s != SubscriptionStatusCanceled {
		t.Fatalf("unexpected scan result %v %v", s, err)
	}
	if err := s.Scan(42); err == nil {
		t.Fatal("expected non-string source to fail")
	}
	if err := s.Scan("paused"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
	if v, err := SubscriptionStatusActive.Value(); err != nil || v != "active" {
		t.Fatalf("unexpected value %v %v", v, err)
	}
	if _, err := SubscriptionStatus("").Value(); err == nil {
		t.Fatal("expected empty status to be rejected on write")
	}
}

func TestSubscriptionTierScan(t *testing.T) {
	var tier SubscriptionTier
	if err := tier.Scan(nil); err != nil || tier != SubscriptionTierFree {
		t.Fatalf("null tier should read as free, got %v %v", tier, err)
	}
	if err := tier.Scan([]byte("enterprise")); err != nil || tier != SubscriptionTierEnterprise {
		t.Fatalf("unexpected scan result %v %v", tier, err)
	}
	if err := tier.Scan("platinum"); err == nil {
		t.Fatal("expected unknown tier to fail")
	}
	if _, err := SubscriptionTier("").Value(); err == nil {
		t.Fatal("empty tier must not be stored")
	}
}
