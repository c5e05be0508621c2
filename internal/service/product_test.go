package service

import (
	"context"
	"errors"
	"testing"

	"berrypay/internal/apperror"
	"berrypay/internal/dto"
)

func TestProductCreateDefaultsActive(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(f.products)
	ctx := context.Background()

	p, err := svc.Create(ctx, "seller", &dto.CreateProductRequest{Name: "Widget", Price: 1000})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" || !p.Active || p.Price != 1000 {
		t.Fatalf("unexpected product %+v", p)
	}

	inactive, err := svc.Create(ctx, "seller", &dto.CreateProductRequest{Name: "Draft", Price: 500, Active: ptr(false)})
	if err != nil {
		t.Fatalf("create inactive: %v", err)
	}
	stored, err := svc.Get(ctx, "seller", inactive.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Active {
		t.Fatal("explicit active=false must be stored")
	}
}

func TestProductOwnership(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(f.products)
	ctx := context.Background()

	p, err := svc.Create(ctx, "alice", &dto.CreateProductRequest{Name: "Ebook", Price: 2990})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, "bob", p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found for another seller, got %v", err)
	}
	if _, err := svc.Update(ctx, "bob", p.ID, &dto.UpdateProductRequest{Name: ptr("Hacked")}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found on foreign update, got %v", err)
	}
	if err := svc.Delete(ctx, "bob", p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found on foreign delete, got %v", err)
	}

	list, err := svc.List(ctx, "bob")
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list for bob, got %v %v", list, err)
	}
}

func TestProductPartialUpdate(t *testing.T) {
	f := newFixture(t)
	svc := NewProductService(f.products)
	ctx := context.Background()

	p, err := svc.Create(ctx, "alice", &dto.CreateProductRequest{Name: "Curso", Price: 9900, Description: "Descrição inicial"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, "alice", p.ID, &dto.UpdateProductRequest{Price: ptr(int64(7900)), Active: ptr(false)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 7900 || updated.Active || updated.Description != "Descrição inicial" || updated.Name != "Curso" {
		t.Fatalf("unexpected product after patch %+v", updated)
	}

	var ve *apperror.ValidationError
	if _, err := svc.Update(ctx, "alice", p.ID, &dto.UpdateProductRequest{Price: ptr(int64(0))}); !errors.As(err, &ve) {
		t.Fatalf("expected validation error for zero price, got %v", err)
	}

	if err := svc.Delete(ctx, "alice", p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, "alice", p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected deleted product to be gone, got %v", err)
	}
}
