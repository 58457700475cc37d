package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tablechain/restaurant-protocol/internal/core/domain"
	"github.com/tablechain/restaurant-protocol/internal/core/ports"
)

type membershipFixture struct {
	customers   *stubCustomerRepo
	restaurants *stubRestaurantRepo
	tokens      *stubTokenLedger
	svc         *MembershipService
}

func newMembershipFixture() *membershipFixture {
	customers := newStubCustomerRepo()
	restaurants := newStubRestaurantRepo()
	restaurants.byRef["cafe-one"] = &domain.Restaurant{Reference: "cafe-one", OwnerKey: "owner-one"}
	tokens := newStubTokenLedger()
	capability := NewCapabilityService(newStubCapabilityRepo(), restaurants, openGate{}, testMultisig, discardLogger)
	return &membershipFixture{
		customers:   customers,
		restaurants: restaurants,
		tokens:      tokens,
		svc:         NewMembershipService(customers, restaurants, capability, tokens, openGate{}, discardLogger),
	}
}

func minimalEnrollInput() ports.EnrollCustomerInput {
	return ports.EnrollCustomerInput{
		CustomerKey: "cust-key",
		ID:          "member-0001",
		MetadataURI: "https://cafe.one/members/0001.json",
	}
}

func TestEnroll(t *testing.T) {
	f := newMembershipFixture()
	ctx := context.Background()

	view, err := f.svc.Enroll(ctx, testMultisig, "cafe-one", minimalEnrollInput())
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	wantRef := domain.CustomerKey("cust-key", "cafe-one")
	if view.CredentialRef != wantRef {
		t.Errorf("got credential_ref %q, want derived %q", view.CredentialRef, wantRef)
	}
	if view.RewardPoints != 0 {
		t.Errorf("got %d points at enrollment, want 0", view.RewardPoints)
	}

	// Exactly one credential token in the customer's holding account.
	balance, _ := f.tokens.Balance(ctx, view.MintKey, "cust-key")
	if balance != 1 {
		t.Errorf("got credential token balance %d, want 1", balance)
	}
	mint, ok := f.tokens.mints[view.MintKey]
	if !ok {
		t.Fatal("credential mint not created")
	}
	if mint.decimals != 0 {
		t.Errorf("got mint decimals %d, want 0 for a non-fungible credential", mint.decimals)
	}

	restaurant, _ := f.restaurants.Get(ctx, "cafe-one")
	if restaurant.CustomerCount != 1 {
		t.Errorf("got customer_count %d, want 1", restaurant.CustomerCount)
	}
}

func TestEnrollDuplicate(t *testing.T) {
	f := newMembershipFixture()
	ctx := context.Background()

	view, err := f.svc.Enroll(ctx, testMultisig, "cafe-one", minimalEnrollInput())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := f.svc.Enroll(ctx, testMultisig, "cafe-one", minimalEnrollInput()); !errors.Is(err, domain.ErrCustomerExists) {
		t.Fatalf("second Enroll: got %v, want ErrCustomerExists", err)
	}

	// The duplicate failed on the profile record, before any token effect.
	balance, _ := f.tokens.Balance(ctx, view.MintKey, "cust-key")
	if balance != 1 {
		t.Errorf("got credential token balance %d after rejected re-enrollment, want 1", balance)
	}
	restaurant, _ := f.restaurants.Get(ctx, "cafe-one")
	if restaurant.CustomerCount != 1 {
		t.Errorf("got customer_count %d, want 1", restaurant.CustomerCount)
	}
}

func TestEnrollDirtyHoldingAccount(t *testing.T) {
	f := newMembershipFixture()

	// Seed a stray token in the not-yet-existing credential holding account.
	mintKey := domain.MintKey(domain.CustomerKey("cust-key", "cafe-one"))
	f.tokens.setBalance(mintKey, "cust-key", 1)

	if _, err := f.svc.Enroll(context.Background(), testMultisig, "cafe-one", minimalEnrollInput()); !errors.Is(err, domain.ErrInvalidBalancePreMint) {
		t.Fatalf("Enroll with dirty holding: got %v, want ErrInvalidBalancePreMint", err)
	}
}

func TestEnrollMintFailureRollsBack(t *testing.T) {
	f := newMembershipFixture()
	ctx := context.Background()

	f.tokens.mintErr = errors.New("ledger unavailable")
	if _, err := f.svc.Enroll(ctx, testMultisig, "cafe-one", minimalEnrollInput()); err == nil {
		t.Fatal("Enroll with failing mint: expected error")
	}

	// No orphan profile: the pair is free to enroll again.
	if _, err := f.customers.GetProfile(ctx, "cust-key", "cafe-one"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("profile after failed enrollment: got %v, want ErrCustomerNotFound", err)
	}

	f.tokens.mintErr = nil
	view, err := f.svc.Enroll(ctx, testMultisig, "cafe-one", minimalEnrollInput())
	if err != nil {
		t.Fatalf("Enroll retry: %v", err)
	}
	balance, _ := f.tokens.Balance(ctx, view.MintKey, "cust-key")
	if balance != 1 {
		t.Errorf("got credential token balance %d after retry, want 1", balance)
	}
}

func TestEnrollCredentialFailureRollsBack(t *testing.T) {
	f := newMembershipFixture()
	ctx := context.Background()

	// A stray credential under the derived ref makes the credential insert fail.
	credentialRef := domain.CustomerKey("cust-key", "cafe-one")
	f.customers.credentials[credentialRef] = &domain.MembershipCredential{ID: credentialRef}

	if _, err := f.svc.Enroll(ctx, testMultisig, "cafe-one", minimalEnrollInput()); !errors.Is(err, domain.ErrCustomerExists) {
		t.Fatalf("Enroll: got %v, want ErrCustomerExists", err)
	}
	if _, err := f.customers.GetProfile(ctx, "cust-key", "cafe-one"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("profile after failed enrollment: got %v, want ErrCustomerNotFound", err)
	}
}

func TestEnrollUnknownRestaurant(t *testing.T) {
	f := newMembershipFixture()

	if _, err := f.svc.Enroll(context.Background(), testMultisig, "no-such-cafe", minimalEnrollInput()); !errors.Is(err, domain.ErrRestaurantNotFound) {
		t.Fatalf("Enroll at missing restaurant: got %v, want ErrRestaurantNotFound", err)
	}
}

func TestEnrollUnauthorized(t *testing.T) {
	f := newMembershipFixture()

	if _, err := f.svc.Enroll(context.Background(), "random-key", "cafe-one", minimalEnrollInput()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("Enroll by stranger: got %v, want ErrUnauthorized", err)
	}
	if len(f.customers.profiles) != 0 {
		t.Error("rejected Enroll still created a profile")
	}
}

func TestEnrollGated(t *testing.T) {
	f := newMembershipFixture()
	locked := NewMembershipService(f.customers, f.restaurants,
		NewCapabilityService(newStubCapabilityRepo(), f.restaurants, lockedGate{}, testMultisig, discardLogger),
		f.tokens, lockedGate{}, discardLogger)

	if _, err := locked.Enroll(context.Background(), testMultisig, "cafe-one", minimalEnrollInput()); !errors.Is(err, domain.ErrProtocolLocked) {
		t.Fatalf("Enroll while locked: got %v, want ErrProtocolLocked", err)
	}
}

func TestGetCredential(t *testing.T) {
	f := newMembershipFixture()
	ctx := context.Background()

	view, err := f.svc.Enroll(ctx, testMultisig, "cafe-one", minimalEnrollInput())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := f.customers.AddPoints(ctx, view.CredentialRef, 42); err != nil {
		t.Fatalf("setup: %v", err)
	}

	got, err := f.svc.GetCredential(ctx, "cust-key", "cafe-one")
	if err != nil {
		t.Fatalf("GetCredential: %v", err)
	}
	if got.RewardPoints != 42 {
		t.Errorf("got %d points, want 42", got.RewardPoints)
	}
	if got.MemberSince == 0 {
		t.Error("member_since not set")
	}

	if _, err := f.svc.GetCredential(ctx, "stranger-key", "cafe-one"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("GetCredential for non-member: got %v, want ErrCustomerNotFound", err)
	}
}
