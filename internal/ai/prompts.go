package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"warehouse-ops-backend/internal/fleet"
	"warehouse-ops-backend/internal/inventory"
)

const assistantPersona = `You are a helpful and friendly AI assistant for a futuristic warehouse management system named 'AI Warehouse'.
You can answer questions about inventory, bot status, and demand forecasts.
Keep your answers concise and helpful.
Treat the context you are given as real-time information.`

const marketPredictionPrompt = "Provide a concise market prediction summary for our futuristic warehouse. " +
	"Focus on one high-demand product category (e.g., electronics, medical, energy) and mention a specific product. " +
	"Keep it under 40 words."

const recommendationPrompt = "Generate a single, actionable strategic recommendation for a warehouse manager. " +
	"The scenario: a key supplier for 'Energy' products is experiencing production slowdowns. " +
	"Demand for energy products is expected to rise 10% next quarter. Keep the recommendation under 50 words."

// productView is the part of a product the model sees.
type productView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Supplier string `json:"supplier"`
	Status   string `json:"status"`
}

// botView is the part of a bot the model sees; history is left out.
type botView struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	Battery        int    `json:"battery"`
	TasksCompleted int    `json:"tasksCompleted"`
	Location       string `json:"location"`
	CurrentTask    string `json:"currentTask,omitempty"`
}

func productsJSON(products []inventory.Product) string {
	views := make([]productView, len(products))
	for i, p := range products {
		views[i] = productView{
			ID: p.ID, Name: p.Name, Category: p.Category, Quantity: p.Quantity,
			Price: p.Price.StringFixed(2), Supplier: p.Supplier, Status: string(p.Status),
		}
	}
	return mustJSON(views)
}

func botsJSON(bots []fleet.Bot) string {
	views := make([]botView, len(bots))
	for i, b := range bots {
		views[i] = botView{
			ID: b.ID, Status: string(b.Status), Battery: b.Battery, TasksCompleted: b.TasksCompleted,
			Location: b.Location, CurrentTask: b.CurrentTask,
		}
	}
	return mustJSON(views)
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func insightPrompt(products []inventory.Product, bots []fleet.Bot) string {
	return fmt.Sprintf(`You are monitoring a warehouse. Inventory: %s. Bot fleet: %s.
Give one short, specific operational insight (under 60 words) that a manager should act on today.`,
		productsJSON(products), botsJSON(bots))
}

func analystPrompt(question string, products []inventory.Product) string {
	return fmt.Sprintf(`You are an inventory analyst. Current inventory data: %s.
Answer the manager's question using only this data. Be precise and brief.
Question: %s`, productsJSON(products), question)
}

func chatPrompt(message string, products []inventory.Product, bots []fleet.Bot) string {
	return fmt.Sprintf("Current inventory: %s\nCurrent bot fleet: %s\n\nUser: %s",
		productsJSON(products), botsJSON(bots), message)
}

func reorderPrompt(low []inventory.Product) string {
	type item struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
	}
	items := make([]item, len(low))
	for i, p := range low {
		items[i] = item{ID: p.ID, Name: p.Name, Quantity: p.Quantity}
	}
	return fmt.Sprintf(`The following products are low in stock: %s. Which ones should be reordered first based on critical need (assume medical and energy are high priority)? Respond with a JSON object containing a single key "product_ids" which is an array of the product ID strings to reorder.`,
		mustJSON(items))
}

func delegationPrompt(description string, bots []fleet.Bot) string {
	return fmt.Sprintf(`You dispatch warehouse bots. Fleet: %s.
Task requested by the operator: %q.
Choose the best available bot. Never choose a bot in Maintenance. Prefer Idle bots with high battery.
Rewrite the task as one of "Pick Item - <product id>", "Deliver Item - <destination>", "Scan Shelf - <aisle>" or "Go to charger".
Respond with a JSON object {"botId": string, "reason": string, "task": string}.`,
		botsJSON(bots), description)
}

func coPilotPrompt(products []inventory.Product, bots []fleet.Bot) string {
	return fmt.Sprintf(`You are the operations co-pilot of a warehouse. Inventory: %s. Bot fleet: %s.
Identify up to three issues that need action now (low or empty stock, low battery bots, idle capacity).
For each, respond with an object {"priority": "High"|"Medium"|"Low", "issueTitle": string, "analysis": string, "steps": [...]}.
Each step is {"actionType": "ASSIGN_BOT"|"FLAG_REORDER"|"INFO", "description": string, "details": object}.
ASSIGN_BOT details are {"botId": string, "task": string}; FLAG_REORDER details are {"productIds": [string]}.
Respond with a JSON array of these objects.`,
		productsJSON(products), botsJSON(bots))
}

func reportSummaryPrompt(kind ReportType, products []inventory.Product, bots []fleet.Bot) string {
	var data string
	switch kind {
	case ReportBotPerformance:
		data = "Bot fleet: " + botsJSON(bots)
	default:
		data = "Inventory: " + productsJSON(products)
	}
	return fmt.Sprintf(`Write an executive summary (3 to 4 sentences) of this %s report. Highlight risks and one recommendation.
%s`, kind, data)
}

func forecastPrompt(points []ForecastPoint) string {
	var b strings.Builder
	for _, p := range points {
		if p.Actual != nil {
			fmt.Fprintf(&b, "%s: actual %d, predicted %d\n", p.Month, *p.Actual, p.Predicted)
		} else {
			fmt.Fprintf(&b, "%s: predicted %d\n", p.Month, p.Predicted)
		}
	}
	return "Explain this demand forecast to a warehouse manager in plain language, in under 80 words. " +
		"Point out the trend and what to prepare for.\n" + b.String()
}
