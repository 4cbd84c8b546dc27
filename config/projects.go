package config

import (
	"strings"
)

// Project categories.
const (
	CategoryVR           = "vr"
	CategoryInteractive  = "interactive"
	CategoryInstallation = "installation"
)

// ProjectsRoutePrefix is the route prefix of project pages.
const ProjectsRoutePrefix = "/projects/"

// Project is one portfolio entry.
type Project struct {
	ID              string    `json:"id"`
	Title           Localized `json:"title"`
	Description     Localized `json:"description"`
	BackgroundImage string    `json:"backgroundImage"`
	// OverUnder marks a stereo image with the left eye on top.
	OverUnder bool   `json:"isOverUnder"`
	Category  string `json:"category"`
}

// Route returns the page route of the project.
func (p Project) Route() string {
	return ProjectsRoutePrefix + p.ID
}

// ProjectForRoute returns the project whose page is at route.
// Routes outside ProjectsRoutePrefix and unknown ids return false.
func (c ViewerConfig) ProjectForRoute(route string) (Project, bool) {
	if !strings.HasPrefix(route, ProjectsRoutePrefix) {
		return Project{}, false
	}
	id := strings.Trim(strings.TrimPrefix(route, ProjectsRoutePrefix), "/")
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	for _, p := range c.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// DefaultProjects returns the built-in portfolio.
func DefaultProjects() []Project {
	return []Project{
		{
			ID:    "human-within",
			Title: Localized{EN: "Human Within", ES: "Human Within"},
			Description: Localized{
				EN: "360° VR Experience exploring human perception and consciousness through immersive storytelling",
				ES: "Experiencia VR 360° que explora la percepción humana y la consciencia a través de narrativa inmersiva",
			},
			BackgroundImage: "HW_360_VR_COLOR_CHECK_6.jpg",
			OverUnder:       true,
			Category:        CategoryVR,
		},
		{
			ID:    "digital-memories",
			Title: Localized{EN: "Digital Memories", ES: "Memorias Digitales"},
			Description: Localized{
				EN: "Interactive VR installation capturing and visualizing personal memories in virtual space",
				ES: "Instalación VR interactiva que captura y visualiza memorias personales en el espacio virtual",
			},
			BackgroundImage: "digital-memories.jpg",
			Category:        CategoryVR,
		},
		{
			ID:    "nature-redux",
			Title: Localized{EN: "Nature Redux", ES: "Naturaleza Redux"},
			Description: Localized{
				EN: "VR environmental art exploring the intersection of natural and digital landscapes",
				ES: "Arte ambiental en VR que explora la intersección entre paisajes naturales y digitales",
			},
			BackgroundImage: "nature-redux.jpg",
			Category:        CategoryVR,
		},
		{
			ID:    "urban-dreams",
			Title: Localized{EN: "Urban Dreams", ES: "Sueños Urbanos"},
			Description: Localized{
				EN: "Surreal cityscapes in VR examining modern urban life and architecture",
				ES: "Paisajes urbanos surrealistas en VR que examinan la vida urbana moderna y la arquitectura",
			},
			BackgroundImage: "urban-dreams.jpg",
			Category:        CategoryVR,
		},
		{
			ID:    "quantum-spaces",
			Title: Localized{EN: "Quantum Spaces", ES: "Espacios Cuánticos"},
			Description: Localized{
				EN: "Abstract VR environments inspired by quantum mechanics and particle physics",
				ES: "Entornos VR abstractos inspirados en la mecánica cuántica y la física de partículas",
			},
			BackgroundImage: "quantum-spaces.jpg",
			Category:        CategoryVR,
		},
		{
			ID:    "time-echoes",
			Title: Localized{EN: "Time Echoes", ES: "Ecos del Tiempo"},
			Description: Localized{
				EN: "Temporal VR experience exploring past, present and future simultaneously",
				ES: "Experiencia VR temporal que explora pasado, presente y futuro simultáneamente",
			},
			BackgroundImage: "time-echoes.jpg",
			Category:        CategoryVR,
		},
	}
}
