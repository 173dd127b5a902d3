package adapter

import (
	"strings"
	"testing"
)

func TestApp_UnmountRunsHooksBeforeOriginalTeardown(t *testing.T) {
	var order []string
	app := NewApp(func() { order = append(order, "original") })
	app.OnTeardown(func() { order = append(order, "first") })
	app.OnTeardown(func() { order = append(order, "second") })

	app.Mount()
	if !app.Mounted() {
		t.Fatal("expected mounted")
	}
	app.Unmount()
	if got := strings.Join(order, ","); got != "second,first,original" {
		t.Fatalf("order=%s", got)
	}
	if app.Mounted() {
		t.Fatal("expected unmounted")
	}

	// 重复卸载不再执行
	app.Unmount()
	if len(order) != 3 {
		t.Fatalf("second unmount ran hooks again: %v", order)
	}
}

func TestApp_UnmountWithoutMountRunsHooksOnly(t *testing.T) {
	var order []string
	app := NewApp(func() { order = append(order, "original") })
	app.OnTeardown(func() { order = append(order, "hook") })

	app.Unmount()
	if got := strings.Join(order, ","); got != "hook" {
		t.Fatalf("order=%s, want hook only", got)
	}

	app.Unmount()
	if len(order) != 1 {
		t.Fatalf("hooks ran twice: %v", order)
	}
}

func TestApp_Registries(t *testing.T) {
	app := NewApp(nil)

	app.Provide("k", 1)
	if v, ok := app.Inject("k"); !ok || v != 1 {
		t.Fatalf("Inject=(%v, %v)", v, ok)
	}
	if _, ok := app.Inject("missing"); ok {
		t.Fatal("Inject(missing) should fail")
	}

	app.SetGlobal("$g", "x")
	if v, ok := app.Global("$g"); !ok || v != "x" {
		t.Fatalf("Global=(%v, %v)", v, ok)
	}

	app.RegisterComponent("Banner", "c1")
	app.RegisterComponent("Banner", "c2")
	if c, ok := app.Component("Banner"); !ok || c != "c2" {
		t.Fatalf("Component=(%v, %v)", c, ok)
	}
}
