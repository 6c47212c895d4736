package theme

import (
	"strings"
	"testing"
)

func TestStatusColor_Active(t *testing.T) {
	if c := StatusColor("ACTIVE"); c != Success {
		t.Errorf("ACTIVE: got %v, want Success", c)
	}
	// Case-insensitive.
	if c := StatusColor("active"); c != Success {
		t.Errorf("active: got %v, want Success", c)
	}
}

func TestStatusColor_Suspended(t *testing.T) {
	if c := StatusColor("SUSPENDED"); c != Error {
		t.Errorf("SUSPENDED: got %v, want Error", c)
	}
}

func TestStatusColor_PendingClosure(t *testing.T) {
	if c := StatusColor("PENDING_CLOSURE"); c != Warning {
		t.Errorf("PENDING_CLOSURE: got %v, want Warning", c)
	}
}

func TestStatusColor_Unknown(t *testing.T) {
	if c := StatusColor("whatever"); c != Muted {
		t.Errorf("unknown status: got %v, want Muted", c)
	}
}

func TestRenderStatus(t *testing.T) {
	out := RenderStatus("ACTIVE")
	if !strings.Contains(out, "ACTIVE") {
		t.Error("RenderStatus should include the status text")
	}
	if !strings.Contains(out, "●") {
		t.Error("RenderStatus should include the bullet")
	}
}
