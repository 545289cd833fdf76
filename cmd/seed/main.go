package main

import (
	"log"
	"os"

	"support-chat-be/internal/model"
	"support-chat-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixed ids so reseeding stays idempotent and the demo widget embed snippet
// keeps working across resets.
var (
	demoRuleID      = uuid.MustParse("6f1b24a0-5a3c-4a8e-9b0d-2f6c1d9e8a01")
	demoWidgetID    = uuid.MustParse("6f1b24a0-5a3c-4a8e-9b0d-2f6c1d9e8a02")
	demoKnowledgeID = uuid.MustParse("6f1b24a0-5a3c-4a8e-9b0d-2f6c1d9e8a03")
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo support-chat data...")

	seedContextRule(db)
	seedWidget(db)
	seedKnowledge(db)

	color.Green("✅ Seed complete. Demo widget id: %s", demoWidgetID)
}

func seedContextRule(db *gorm.DB) {
	rule := model.ContextRule{
		Id:             demoRuleID,
		Name:           "Demo Support Rule",
		IsActive:       true,
		Keywords:       datatypes.JSON([]byte(`["refund", "shipping", "order"]`)),
		ExcludedTopics: datatypes.JSON([]byte(`["legal advice"]`)),
		PromptTemplate: "You are a friendly support agent for Acme Store. Answer briefly.\n\nCustomer question: {{message}}",
		ResponseFilters: datatypes.JSON([]byte(`[
			{"type": "replace", "pattern": "the bot", "value": "our assistant"},
			{"type": "append", "value": "Is there anything else I can help you with?"}
		]`)),
		KnowledgeBaseIds: datatypes.JSON([]byte(`["` + demoKnowledgeID.String() + `"]`)),
		PreferredModel:   "",
		Version:          1,
	}

	upsert(db, &rule, "context rule")
}

func seedWidget(db *gorm.DB) {
	ruleID := demoRuleID
	widget := model.Widget{
		Id:             demoWidgetID,
		Name:           "Acme Store Widget",
		ContextRuleId:  &ruleID,
		WelcomeMessage: "Hi! Welcome to Acme Store support. How can we help?",
		Appearance:     datatypes.JSON([]byte(`{"primaryColor": "#4f46e5", "position": "bottom-right"}`)),
		IsActive:       true,
	}

	upsert(db, &widget, "widget")
}

func seedKnowledge(db *gorm.DB) {
	docs := []model.KnowledgeDocument{
		{
			Id:              uuid.MustParse("6f1b24a0-5a3c-4a8e-9b0d-2f6c1d9e8a10"),
			KnowledgeBaseId: demoKnowledgeID,
			Title:           "Refund Policy",
			Content:         "We issue full refunds within 14 days of purchase. Contact support with your order number to start a refund.",
			Metadata:        datatypes.JSON([]byte(`{"category": "billing"}`)),
		},
		{
			Id:              uuid.MustParse("6f1b24a0-5a3c-4a8e-9b0d-2f6c1d9e8a11"),
			KnowledgeBaseId: demoKnowledgeID,
			Title:           "Shipping Times",
			Content:         "Standard shipping takes 3-5 business days. Express shipping arrives in 1-2 business days.",
			Metadata:        datatypes.JSON([]byte(`{"category": "logistics"}`)),
		},
		{
			Id:              uuid.MustParse("6f1b24a0-5a3c-4a8e-9b0d-2f6c1d9e8a12"),
			KnowledgeBaseId: demoKnowledgeID,
			Title:           "Order Tracking",
			Content:         "Track your order from the confirmation email or your account page. Tracking numbers appear once the order ships.",
			Metadata:        datatypes.JSON([]byte(`{"category": "logistics"}`)),
		},
	}

	for i := range docs {
		upsert(db, &docs[i], "knowledge document")
	}
}

func upsert(db *gorm.DB, row interface{}, label string) {
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(row).Error
	if err != nil {
		color.Red("Failed to seed %s: %v", label, err)
		return
	}
	color.Green("Seeded %s", label)
}
