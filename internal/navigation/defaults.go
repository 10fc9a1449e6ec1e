package navigation

import "github.com/telaviv/ops-dashboard/internal/auth"

var (
	everyone = auth.AnyRole
	finance  = auth.FinanceRoles
	admin    = auth.AdminOnly
)

// Default is the built-in menu of the dashboard.
func Default() *Catalog {
	return &Catalog{Screens: []Screen{
		{
			ID:    "dashboard",
			Label: "Dashboard",
			Path:  "/logado",
			Allow: everyone,
			Links: dashboardLinks(),
		},
		{
			ID:    "inteligencia-operacional",
			Label: "Inteligência Operacional",
			Allow: everyone,
			Children: []Screen{
				{ID: "efetivo", Label: "Efetivo", Path: "/logado/efetivo", Allow: everyone, Report: "efetivo"},
				{ID: "maracana", Label: "Maracanã", Path: "/logado/maracana", Allow: everyone, Report: "maracana"},
				{ID: "beneficios", Label: "Beneficios", Path: "/logado/beneficios", Allow: everyone, Report: "beneficios"},
			},
		},
		{
			ID:    "inteligencia-financeira",
			Label: "Inteligência Financeira",
			Allow: finance,
			Children: []Screen{
				{ID: "caixa", Label: "Rentabilidade Caixa", Path: "/logado/caixa", Allow: finance, Report: "caixa"},
				{ID: "rentabilidade", Label: "Rentabilidade Competência", Path: "/logado/rentabilidade", Allow: finance, Report: "rentabilidade"},
				{ID: "provisionamento", Label: "Provisionamento", Path: "/logado/provisionamento", Allow: finance, Report: "provisionamento"},
			},
		},
		{
			ID:    "etl",
			Label: "ETL",
			Allow: admin,
			Children: []Screen{
				{ID: "nexti", Label: "Nexti", Path: "/logado/nexti", Allow: admin},
			},
		},
		{ID: "log", Label: "Logs", Path: "/logado/log", Allow: admin},
		{ID: "usuarios", Label: "Usuários", Path: "/logado/usuarios", Allow: admin},
	}}
}

func dashboardLinks() []Link {
	return []Link{
		{
			Label:       "Solicitações Financeiras",
			Description: "Preencha o formulário para solicitações financeiras.",
			URL:         "https://forms.clickup.com/9013205948/f/8ckn6xw-9453/XCJPNT2GAJT2QYBZ9Q",
		},
		{
			Label:       "Formulário Reposições",
			Description: "Preencha o formulário para reposições em caso de falta do colaborador.",
			URL:         "https://forms.gle/eQf3D7Sj1PtvfnG59",
		},
		{
			Label:       "Formulário Extra",
			Description: "Preencha o formulário para solicitar diárias extras para um determinado posto.",
			URL:         "https://forms.gle/cHFE2fVFT3aD9LJA8",
		},
		{
			Label:       "Movimentações Operacionais",
			Description: "Preencha o formulário para realizar movimentações operacionais no Nexti.",
			URL:         "https://forms.clickup.com/9013205948/f/8ckn6xw-9813/QK3QEZJU4BBRA3G3KY",
		},
		{
			Label:       "Requisição de Vagas",
			Description: "Preencha o formulário para realizar requisição de vagas.",
			URL:         "https://forms.gle/nt4ApwVcDWqSpBKLA",
		},
		{
			Label:       "Reclamações – Folha ou Benefícios",
			Description: "Preencha o formulário para realizar reclamações ao DP.",
			URL:         "https://forms.clickup.com/9013205948/f/8ckn6xw-6853/CNT21T9JP97MJPFTBC",
		},
	}
}
