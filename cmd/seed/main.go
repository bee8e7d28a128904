package main

import (
	"fmt"
	"log"

	"ledgerbook/internal/config"
	"ledgerbook/internal/database"
	"ledgerbook/internal/models"
	"ledgerbook/internal/repositories"
	"ledgerbook/internal/services"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	seedUserCount        = 5
	seedAccountsPerUser  = 4
	seedUserPassword     = "Seed-Password-1234"
	seedUserEmailPattern = "user%d@ledgerbook.dev"
)

var seedAccountTypes = []string{
	models.AccountTypeChecking,
	models.AccountTypeSavings,
	models.AccountTypeInvestment,
}

// Seeds a development database with fake users and bank accounts.
// Never run this against production data.
func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	userRepo := repositories.NewUserRepository(db.DB)
	accountRepo := repositories.NewBankAccountRepository(db.DB)
	passwordService := services.NewPasswordService()

	gofakeit.Seed(0)

	passwordHash, err := passwordService.HashPassword(seedUserPassword)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	created := 0
	for i := 1; i <= seedUserCount; i++ {
		email := fmt.Sprintf(seedUserEmailPattern, i)

		if existing, _ := userRepo.GetByEmail(email); existing != nil {
			log.Printf("User %s already exists, skipping", email)
			continue
		}

		user := &models.User{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    gofakeit.FirstName(),
			LastName:     gofakeit.LastName(),
		}

		if err := userRepo.Create(user); err != nil {
			log.Fatalf("Failed to create user %s: %v", email, err)
		}

		for j := 0; j < seedAccountsPerUser; j++ {
			balance := decimal.NewFromFloat(gofakeit.Price(0, 250000)).Round(2)

			account := &models.BankAccount{
				AccountName:    gofakeit.RandomString([]string{"Household", "Emergency Fund", "Payroll", "Travel", "Brokerage"}),
				AccountNumber:  gofakeit.AchAccount(),
				BankName:       gofakeit.Company() + " Bank",
				AccountType:    seedAccountTypes[j%len(seedAccountTypes)],
				InitialBalance: balance,
				CurrentBalance: balance,
				IsActive:       true,
				UserID:         user.ID,
			}

			if err := accountRepo.Create(account); err != nil {
				log.Fatalf("Failed to create account for %s: %v", email, err)
			}
			created++
		}

		log.Printf("Seeded user %s with %d accounts", email, seedAccountsPerUser)
	}

	log.Printf("Seed complete: %d bank accounts created (password for all users: %s)", created, seedUserPassword)
}
