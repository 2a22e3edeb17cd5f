package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"milktea-server/internal/database"
	"milktea-server/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers an admin's question about the shop, calling back into
// the catalog and order store through tool functions when it needs data.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the back-office assistant of a milk-tea shop.

RULES:
1. MENU: For any question about drinks, prices, categories or availability,
   call 'check_menu' and read the JSON before answering.
2. PRICING: To change a drink's base price by NAME, first call 'check_menu'
   to find its ID, then call 'update_base_price' with that ID. Never ask
   the admin for an ID.
3. SALES: For revenue questions use 'get_sales_report'. Revenue only counts
   paid orders.
4. ORDERS: For "how many orders are pending/preparing/..." use
   'order_status_counts'.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_menu",
					Description: "Get the full drink menu. Use this to find ANY product details like ID, Name, Base Price, Category, or Availability.",
				},
				{
					Name:        "update_base_price",
					Description: "Update the base price of a drink using its ID",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"product_id": {Type: genai.TypeInteger, Description: "ID of the drink"},
							"new_price":  {Type: genai.TypeNumber, Description: "New base price in pesos"},
						},
						Required: []string{"product_id", "new_price"},
					},
				},
				{
					Name:        "get_sales_report",
					Description: "Get paid revenue and order count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "order_status_counts",
					Description: "Count orders per lifecycle status (pending, confirmed, preparing, ready, completed, cancelled).",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_menu":
				return executeCheckMenu(ctx, session)
			case "update_base_price":
				return executeUpdatePrice(ctx, session, funcCall), nil
			case "get_sales_report":
				return executeSalesReport(ctx, session, funcCall), nil
			case "order_status_counts":
				return executeStatusCounts(ctx, session), nil
			}
		}
	}

	return printResponse(resp), nil
}

func executeCheckMenu(ctx context.Context, session *genai.ChatSession) (string, error) {
	var products []models.Product
	database.DB.Find(&products)

	type menuEntry struct {
		ID        uint    `json:"id"`
		Name      string  `json:"name"`
		Category  string  `json:"category"`
		BasePrice float64 `json:"base_price"`
		Available bool    `json:"available"`
	}
	var menu []menuEntry
	for _, p := range products {
		menu = append(menu, menuEntry{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			BasePrice: p.BasePrice,
			Available: p.Available,
		})
	}

	jsonBytes, _ := json.Marshal(menu)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_menu",
		Response: map[string]interface{}{"menu": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}

	// The model may follow up with a price update after reading the menu
	for _, part := range finalResp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			if funcCall.Name == "update_base_price" {
				return executeUpdatePrice(ctx, session, funcCall), nil
			}
		}
	}
	return printResponse(finalResp), nil
}

func executeUpdatePrice(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	productID := int(args["product_id"].(float64))
	newPrice := args["new_price"].(float64)

	msg := "Success"
	if newPrice < 0 {
		msg = "Rejected: price must not be negative"
	} else {
		result := database.DB.Model(&models.Product{}).
			Where("id = ?", productID).
			Update("base_price", newPrice)
		if result.RowsAffected == 0 {
			msg = "Product ID not found"
		}
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "update_base_price",
		Response: map[string]interface{}{"status": msg, "new_price": newPrice},
	})
	return printResponse(finalResp)
}

func executeSalesReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr := args["start_date"].(string)
	endStr := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)

	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.GetSalesReport(start, end)
	if err != nil {
		return "Error calculating sales."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"paid_revenue": report.TotalRevenue,
			"order_count":  report.TotalCount,
		},
	})
	return printResponse(finalResp)
}

func executeStatusCounts(ctx context.Context, session *genai.ChatSession) string {
	counts, err := database.GetStatusBreakdown()
	if err != nil {
		return "Error counting orders."
	}

	byStatus := map[string]interface{}{}
	for _, sc := range counts {
		byStatus[sc.Status] = sc.Count
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "order_status_counts",
		Response: byStatus,
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
