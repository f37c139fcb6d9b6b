package com

import (
	"sync/atomic"
	"testing"
)

type testClient struct {
	id string
	c  int32
}

func (t *testClient) Id() string   { return t.id }
func (t *testClient) Disconnect()  {}
func (t *testClient) change(n int) { atomic.AddInt32(&t.c, int32(n)) }

func TestPointerValue(t *testing.T) {
	m := NewNetMap[string, *testClient]()
	c := testClient{id: "1"}
	m.Add(&c)
	fc, _ := m.FindBy(func(c *testClient) bool { return c.id == "1" })
	c.change(100)
	fc2, _ := m.Find(fc.Id())

	expected := c.c == fc.c && c.c == fc2.c
	if !expected {
		t.Errorf("not expected change, o: %v != %v != %v", c.c, fc.c, fc2.c)
	}
}

func TestFindOrInsert(t *testing.T) {
	m := NewMap[string, *testClient]()
	a := m.FindOrInsert("a", func() *testClient { return &testClient{id: "a"} })
	b := m.FindOrInsert("a", func() *testClient { return &testClient{id: "a2"} })
	if a != b {
		t.Errorf("got a new value for an existing key")
	}
}

func TestRemoveIf(t *testing.T) {
	m := NewMap[string, *testClient]()
	m.Put("a", &testClient{id: "a"})
	if m.RemoveIf("a", func(v *testClient) bool { return false }) {
		t.Errorf("removed despite the predicate")
	}
	if !m.RemoveIf("a", func(v *testClient) bool { return true }) {
		t.Errorf("not removed, but should be")
	}
	if m.Has("a") {
		t.Errorf("key is still there")
	}
}
