package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cuddles47/electroshop/internal/models"
	"github.com/cuddles47/electroshop/internal/store"
)

func main() {
	addUserCmd := flag.NewFlagSet("add-user", flag.ExitOnError)
	email := addUserCmd.String("email", "", "Email for the new user")
	password := addUserCmd.String("password", "", "Password for the new user")
	role := addUserCmd.String("role", models.RoleUser, "Role for the new user (admin or user)")

	addProductCmd := flag.NewFlagSet("add-product", flag.ExitOnError)
	title := addProductCmd.String("title", "", "Product title")
	price := addProductCmd.Int64("price", 0, "Price in minor currency units")
	stock := addProductCmd.Int("stock", 0, "Initial stock quantity")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-user' or 'add-product' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-user":
		addUserCmd.Parse(os.Args[2:])
		if *email == "" || *password == "" {
			fmt.Println("email and password are required")
			addUserCmd.PrintDefaults()
			os.Exit(1)
		}
		if *role != models.RoleAdmin && *role != models.RoleUser {
			fmt.Println("role must be 'admin' or 'user'")
			os.Exit(1)
		}
		createUser(*email, *password, *role)
	case "add-product":
		addProductCmd.Parse(os.Args[2:])
		if *title == "" || *price <= 0 || *stock < 0 {
			fmt.Println("title, a positive price, and a non-negative stock are required")
			addProductCmd.PrintDefaults()
			os.Exit(1)
		}
		createProduct(*title, *price, *stock)
	default:
		fmt.Println("expected 'add-user' or 'add-product' subcommand")
		os.Exit(1)
	}
}

func openStore() *store.Store {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./electroshop.db"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure tables exist if running cli before the server
	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to init schema: %v", err)
	}
	return db
}

func createUser(email, password, role string) {
	db := openStore()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := db.CreateUser(user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("User '%s' (%s) created successfully.\n", email, role)
}

func createProduct(title string, price int64, stock int) {
	db := openStore()

	product := &models.Product{
		ID:      uuid.NewString(),
		Title:   title,
		Price:   price,
		InStock: stock,
	}
	if err := db.CreateProduct(product); err != nil {
		log.Fatalf("Failed to create product: %v", err)
	}

	fmt.Printf("Product '%s' created with id %s.\n", title, product.ID)
}
