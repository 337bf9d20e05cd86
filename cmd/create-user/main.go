// Interactive tool to bootstrap an account with a chosen role, typically the
// first admin or a coach. Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/repository"
	"github.com/scafette/ProjetDev/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using the process environment")
	}

	dbUrl := os.Getenv("DB_URL")
	if dbUrl == "" {
		fmt.Fprintln(os.Stderr, "DB_URL environment variable is required")
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbUrl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	reader := bufio.NewReader(os.Stdin)

	username := prompt(reader, "Username: ")
	if username == "" {
		fmt.Fprintln(os.Stderr, "Username is required")
		os.Exit(1)
	}
	email := prompt(reader, "Email (optional): ")
	password := prompt(reader, "Password: ")
	if len(password) < 6 {
		fmt.Fprintln(os.Stderr, "Password must be at least 6 characters")
		os.Exit(1)
	}
	role := strings.ToLower(prompt(reader, "Role [user/coach/admin] (default admin): "))
	if role == "" {
		role = models.RoleAdmin
	}
	if !models.ValidRole(role) {
		fmt.Fprintf(os.Stderr, "Unknown role %q\n", role)
		os.Exit(1)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if email != "" {
		user.Email = &email
	}

	if err := repository.NewUserRepository(conn).CreateUser(ctx, user); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:       %d\n", user.ID)
	fmt.Printf("  Username: %s\n", user.Username)
	fmt.Printf("  Role:     %s\n", user.Role)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}
