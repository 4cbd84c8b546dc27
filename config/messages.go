package config

// Supported languages.
const (
	LangEN = "en"
	LangES = "es"
)

// Localized is a string in every supported language.
type Localized struct {
	EN string `json:"en"`
	ES string `json:"es"`
}

// Get returns the text for lang, falling back to English.
func (l Localized) Get(lang string) string {
	if lang == LangES && l.ES != "" {
		return l.ES
	}
	return l.EN
}

// Messages are the user-facing notices and prompts of the viewer.
type Messages struct {
	HTTPSRequired      Localized `json:"httpsRequired"`
	OrientationEnabled Localized `json:"orientationEnabled"`
	OrientationError   Localized `json:"orientationError"`

	ClickToExplore Localized `json:"clickToExplore"`
	TapToExplore   Localized `json:"tapToExplore"`
	OrientationTip Localized `json:"orientationTip"`
	ExitView       Localized `json:"exitView"`
	SensorOn       Localized `json:"sensorOn"`
	SensorOff      Localized `json:"sensorOff"`
}

// DefaultMessages returns the built-in notices.
func DefaultMessages() Messages {
	return Messages{
		HTTPSRequired: Localized{
			EN: "Device orientation requires HTTPS",
			ES: "La orientación del dispositivo requiere HTTPS",
		},
		OrientationEnabled: Localized{
			EN: "Device orientation enabled! Move your device to look around.",
			ES: "¡Orientación del dispositivo activada! Mueve tu dispositivo para mirar alrededor.",
		},
		OrientationError: Localized{
			EN: "Could not enable device orientation. Please check your device settings.",
			ES: "No se pudo activar la orientación del dispositivo. Revisa la configuración de tu dispositivo.",
		},
		ClickToExplore: Localized{EN: "Click to explore", ES: "Haz clic para explorar"},
		TapToExplore:   Localized{EN: "Tap to explore", ES: "Toca para explorar"},
		OrientationTip: Localized{
			EN: "Enable device orientation for immersive viewing",
			ES: "Activa la orientación del dispositivo para una vista inmersiva",
		},
		ExitView:  Localized{EN: "Exit View", ES: "Salir de la vista"},
		SensorOn:  Localized{EN: "Gyro on", ES: "Giroscopio activado"},
		SensorOff: Localized{EN: "Gyro off", ES: "Giroscopio desactivado"},
	}
}
