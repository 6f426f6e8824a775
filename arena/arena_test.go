package arena_test

import (
	"testing"

	"github.com/fyparse/fyparse/arena"
)

func TestPoolAllocReturnsRequestedLength(t *testing.T) {
	p := arena.NewPool()
	tag := p.NewTag()
	buf := p.Alloc(tag, 16)
	if len(buf) != 16 {
		t.Fatalf("len = %d", len(buf))
	}
}

func TestPoolReleaseFallsBackToDirectAlloc(t *testing.T) {
	p := arena.NewPool()
	tag := p.NewTag()
	p.Release(tag)
	buf := p.Alloc(tag, 8)
	if len(buf) != 8 {
		t.Fatalf("len = %d", len(buf))
	}
}

func TestEagerAllocIsUnpooled(t *testing.T) {
	var e arena.Eager
	a := e.Alloc(e.NewTag(), 4)
	b := e.Alloc(e.NewTag(), 4)
	if &a[0] == &b[0] {
		t.Fatal("expected distinct backing arrays from Eager allocator")
	}
}

func TestDistinctTagsAreIndependent(t *testing.T) {
	p := arena.NewPool()
	t1 := p.NewTag()
	t2 := p.NewTag()
	if t1 == t2 {
		t.Fatal("expected distinct tags")
	}
	p.Release(t1)
	buf := p.Alloc(t2, 4)
	if len(buf) != 4 {
		t.Fatalf("len = %d", len(buf))
	}
}
