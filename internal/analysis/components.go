package analysis

import "github.com/Simplici0/orca/internal/pricing"

func repeat(kind string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = kind
	}
	return out
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// componentsFor returns a fresh list on every call so callers may modify it.
func componentsFor(kind ProjectKind) []pricing.Component {
	switch kind {
	case KindKitchen:
		return []pricing.Component{
			{ID: "upper_cabinet_1", Name: "Armário Superior Esquerdo", Category: "upper_cabinet", WidthCM: 80, HeightCM: 70, DepthCM: 35, AreaM2: 1.89, SuggestedMaterial: "MDF 15mm", HardwareItems: []string{"hinge", "hinge", "handle"}},
			{ID: "upper_cabinet_2", Name: "Armário Superior Central", Category: "upper_cabinet", WidthCM: 120, HeightCM: 70, DepthCM: 35, AreaM2: 2.73, SuggestedMaterial: "MDF 15mm", HardwareItems: concat(repeat("hinge", 4), repeat("handle", 2))},
			{ID: "lower_cabinet_1", Name: "Armário Inferior com Gavetas", Category: "lower_cabinet", WidthCM: 60, HeightCM: 85, DepthCM: 55, AreaM2: 2.15, SuggestedMaterial: "MDF 18mm", HardwareItems: concat(repeat("slide", 3), repeat("handle", 3))},
			{ID: "countertop", Name: "Bancada Principal", Category: "countertop", WidthCM: 240, HeightCM: 4, DepthCM: 60, AreaM2: 1.44, SuggestedMaterial: "Melamina 15mm", HardwareItems: []string{}},
		}
	case KindBathroom:
		return []pricing.Component{
			{ID: "sink_cabinet", Name: "Gabinete da Pia", Category: "vanity", WidthCM: 80, HeightCM: 60, DepthCM: 45, AreaM2: 1.68, SuggestedMaterial: "MDF 18mm", HardwareItems: []string{"hinge", "hinge", "handle"}},
			{ID: "mirror_cabinet", Name: "Espelheira com Porta", Category: "mirror_cabinet", WidthCM: 60, HeightCM: 70, DepthCM: 15, AreaM2: 0.84, SuggestedMaterial: "MDF 15mm", HardwareItems: []string{"hinge", "handle"}},
		}
	case KindBedroom:
		return []pricing.Component{
			{ID: "wardrobe", Name: "Guarda-Roupa 6 Portas", Category: "wardrobe", WidthCM: 270, HeightCM: 220, DepthCM: 60, AreaM2: 8.45, SuggestedMaterial: "MDF 18mm", HardwareItems: concat(repeat("hinge", 12), repeat("handle", 6))},
			{ID: "dresser", Name: "Cômoda 4 Gavetas", Category: "dresser", WidthCM: 120, HeightCM: 80, DepthCM: 45, AreaM2: 2.88, SuggestedMaterial: "MDF 15mm", HardwareItems: concat(repeat("slide", 4), repeat("handle", 4))},
		}
	case KindOffice:
		return []pricing.Component{
			{ID: "desk", Name: "Mesa de Escritório", Category: "desk", WidthCM: 150, HeightCM: 75, DepthCM: 70, AreaM2: 1.05, SuggestedMaterial: "MDF 18mm", HardwareItems: []string{}},
			{ID: "bookcase", Name: "Estante para Livros", Category: "bookcase", WidthCM: 80, HeightCM: 180, DepthCM: 30, AreaM2: 3.24, SuggestedMaterial: "MDF 15mm", HardwareItems: []string{}},
		}
	case KindSmall:
		return []pricing.Component{
			{ID: "shelf_1", Name: "Prateleira Simples", Category: "shelf", WidthCM: 80, HeightCM: 20, DepthCM: 25, AreaM2: 0.60, SuggestedMaterial: "MDF 15mm", HardwareItems: []string{}},
		}
	case KindMedium:
		return []pricing.Component{
			{ID: "cabinet_1", Name: "Armário Padrão", Category: "cabinet", WidthCM: 100, HeightCM: 200, DepthCM: 50, AreaM2: 4.50, SuggestedMaterial: "MDF 18mm", HardwareItems: []string{"hinge", "hinge", "handle"}},
			{ID: "shelf_1", Name: "Prateleira Interna", Category: "shelf", WidthCM: 95, HeightCM: 2, DepthCM: 45, AreaM2: 0.43, SuggestedMaterial: "MDF 15mm", HardwareItems: []string{}},
		}
	default:
		return []pricing.Component{
			{ID: "module_1", Name: "Módulo Principal", Category: "module", WidthCM: 200, HeightCM: 220, DepthCM: 60, AreaM2: 7.20, SuggestedMaterial: "MDF 18mm", HardwareItems: concat(repeat("hinge", 6), repeat("handle", 3))},
			{ID: "module_2", Name: "Módulo Secundário", Category: "module", WidthCM: 150, HeightCM: 180, DepthCM: 45, AreaM2: 4.05, SuggestedMaterial: "MDF 15mm", HardwareItems: concat(repeat("hinge", 4), repeat("handle", 2))},
			{ID: "integrated_countertop", Name: "Bancada Integrada", Category: "countertop", WidthCM: 350, HeightCM: 4, DepthCM: 60, AreaM2: 2.10, SuggestedMaterial: "Melamina 15mm", HardwareItems: []string{}},
		}
	}
}
