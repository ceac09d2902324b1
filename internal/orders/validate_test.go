package orders

import (
	"errors"
	"testing"
)

func TestValidateCreateOrder(t *testing.T) {
	tests := []struct {
		name    string
		req     *CreateOrderRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req: &CreateOrderRequest{
				UserID: 1,
				Items: []LineItem{
					{ID: 1, Quantity: 2, Price: 150},
					{ID: 2, Quantity: 1, Price: 450},
				},
				TotalAmount: 750,
			},
			wantErr: false,
		},
		{
			name: "empty items",
			req: &CreateOrderRequest{
				UserID:      1,
				Items:       []LineItem{},
				TotalAmount: 0,
			},
			wantErr: true,
		},
		{
			name: "missing user id",
			req: &CreateOrderRequest{
				Items:       []LineItem{{ID: 1, Quantity: 1, Price: 9.99}},
				TotalAmount: 9.99,
			},
			wantErr: true,
		},
		{
			name: "zero quantity",
			req: &CreateOrderRequest{
				UserID:      1,
				Items:       []LineItem{{ID: 1, Quantity: 0, Price: 9.99}},
				TotalAmount: 0,
			},
			wantErr: true,
		},
		{
			name: "negative quantity",
			req: &CreateOrderRequest{
				UserID:      1,
				Items:       []LineItem{{ID: 1, Quantity: -1, Price: 9.99}},
				TotalAmount: -9.99,
			},
			wantErr: true,
		},
		{
			name: "negative price",
			req: &CreateOrderRequest{
				UserID:      1,
				Items:       []LineItem{{ID: 1, Quantity: 1, Price: -0.01}},
				TotalAmount: -0.01,
			},
			wantErr: true,
		},
		{
			name: "tampered total",
			req: &CreateOrderRequest{
				UserID:      1,
				Items:       []LineItem{{ID: 1, Quantity: 2, Price: 150}},
				TotalAmount: 1000,
			},
			wantErr: true,
		},
		{
			name: "total inside tolerance",
			req: &CreateOrderRequest{
				UserID:      1,
				Items:       []LineItem{{ID: 1, Quantity: 1, Price: 9.99}},
				TotalAmount: 9.985,
			},
			wantErr: false,
		},
		{
			name: "total just outside tolerance",
			req: &CreateOrderRequest{
				UserID:      1,
				Items:       []LineItem{{ID: 1, Quantity: 1, Price: 9.99}},
				TotalAmount: 10.02,
			},
			wantErr: true,
		},
		{
			name: "accumulated float totals still match",
			req: &CreateOrderRequest{
				UserID: 1,
				Items: []LineItem{
					{ID: 1, Quantity: 3, Price: 8.99},
					{ID: 2, Quantity: 2, Price: 15.99},
					{ID: 3, Quantity: 1, Price: 3.99},
				},
				TotalAmount: 62.94,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCreateOrder(tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCreateOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ve ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestComputeTotal(t *testing.T) {
	items := []LineItem{
		{ID: 1, Quantity: 2, Price: 150},
		{ID: 2, Quantity: 1, Price: 450},
	}
	if got := ComputeTotal(items); got != 750 {
		t.Errorf("ComputeTotal() = %v, want 750", got)
	}
	if got := ComputeTotal(nil); got != 0 {
		t.Errorf("ComputeTotal(nil) = %v, want 0", got)
	}
}
