package accounts

// Plan is a subscription level.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanBasic      Plan = "basic"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Unlimited marks a plan without a monthly project cap.
const Unlimited = -1

// PlanInfo describes what a plan allows.
type PlanInfo struct {
	Plan            Plan     `json:"plan"`
	Label           string   `json:"label"`
	MonthlyPriceBRL float64  `json:"monthly_price_brl"`
	MonthlyProjects int      `json:"monthly_projects"`
	Features        []string `json:"features"`
}

// Unlimited reports whether the plan has no monthly cap.
func (p PlanInfo) Unlimited() bool {
	return p.MonthlyProjects == Unlimited
}

var plans = []PlanInfo{
	{Plan: PlanFree, Label: "Gratuito", MonthlyPriceBRL: 0, MonthlyProjects: 3,
		Features: []string{"Upload de arquivos 3D", "Orçamento básico", "Relatório simples"}},
	{Plan: PlanBasic, Label: "Básico", MonthlyPriceBRL: 49.90, MonthlyProjects: 50,
		Features: []string{"Todos recursos gratuitos", "Preços atualizados", "Relatórios detalhados"}},
	{Plan: PlanPro, Label: "Profissional", MonthlyPriceBRL: 99.90, MonthlyProjects: 200,
		Features: []string{"Todos recursos básicos", "Exportação Excel e PDF", "Suporte prioritário"}},
	{Plan: PlanEnterprise, Label: "Empresarial", MonthlyPriceBRL: 299.90, MonthlyProjects: Unlimited,
		Features: []string{"Todos recursos profissionais", "Multi-usuários", "Customização completa"}},
}

// Plans lists every plan from cheapest to most expensive.
func Plans() []PlanInfo {
	out := make([]PlanInfo, len(plans))
	copy(out, plans)
	return out
}

// LookupPlan returns the plan's info. Unknown plans get the free tier.
func LookupPlan(p Plan) PlanInfo {
	for _, info := range plans {
		if info.Plan == p {
			return info
		}
	}
	return plans[0]
}

// Valid reports whether p names a known plan.
func (p Plan) Valid() bool {
	for _, info := range plans {
		if info.Plan == p {
			return true
		}
	}
	return false
}
