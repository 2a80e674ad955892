package services

import "testing"

func TestDepositAndBalance(t *testing.T) {
	env := newTestEnv(t)
	user := newMember(t, env.db)

	if _, err := env.wallet.Deposit(user, 0); KindOf(err) != KindState {
		t.Fatalf("zero deposit: expected state error, got %v", err)
	}

	balance, err := env.wallet.Deposit(user, 2500)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if balance != 2500 {
		t.Errorf("balance after deposit = %d, want 2500", balance)
	}

	balance, err = env.wallet.Balance(user)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 2500 {
		t.Errorf("balance = %d, want 2500", balance)
	}
}
