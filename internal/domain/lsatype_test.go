package domain

import "testing"

func TestLSTypeInRouterToASNSSARange(t *testing.T) {
	inRange := []LSType{LSTypeRouter, LSTypeNetwork, LSTypeSummaryNet, LSTypeSummaryASBR, LSTypeASExternal, LSTypeGroupMember, LSTypeASNSSA}
	for _, lt := range inRange {
		if !lt.InRouterToASNSSARange() {
			t.Errorf("LSType(%d).InRouterToASNSSARange() = false, want true", lt)
		}
	}
	outOfRange := []LSType{LSTypeOpaqueLink, LSTypeOpaqueArea, LSTypeOpaqueAS}
	for _, lt := range outOfRange {
		if lt.InRouterToASNSSARange() {
			t.Errorf("LSType(%d).InRouterToASNSSARange() = true, want false", lt)
		}
	}
}
