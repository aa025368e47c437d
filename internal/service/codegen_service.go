package service

import (
	"fmt"
	"strings"

	"services/ea-service/internal/model"
	"services/ea-service/internal/validator"

	"go.uber.org/zap"
)

// CodegenService renders an MQL-style Expert Advisor skeleton from a
// builder configuration
type CodegenService struct {
	logger *zap.Logger
}

// NewCodegenService creates a new code generator
func NewCodegenService(logger *zap.Logger) *CodegenService {
	return &CodegenService{logger: logger}
}

// Generate renders source code for a configuration. Output is
// deterministic for a given configuration.
func (s *CodegenService) Generate(cfg model.Configuration) (string, error) {
	if err := validator.ValidateConfiguration(cfg); err != nil {
		return "", err
	}

	indicator := cfg.String("indicator", "MA")
	parameter := cfg.String("parameter", "14")
	stopLoss := riskSetting(cfg, "stopLoss", 50)
	trailingStop := riskSetting(cfg, "trailingStop", 20)

	var b strings.Builder
	b.WriteString("//+------------------------------------------------------------------+\n")
	b.WriteString("//| Generated Expert Advisor                                         |\n")
	b.WriteString("//+------------------------------------------------------------------+\n")
	fmt.Fprintf(&b, "#property description \"EA generated from %s configuration\"\n\n", indicator)
	fmt.Fprintf(&b, "extern double StopLoss     = %g;\n", stopLoss)
	fmt.Fprintf(&b, "extern double TrailingStop = %g;\n\n", trailingStop)
	b.WriteString("int OnInit()\n{\n   return(INIT_SUCCEEDED);\n}\n\n")
	b.WriteString("void OnTick()\n{\n")
	fmt.Fprintf(&b, "   double signal = i%s(Symbol(), 0, %s, 0);\n", indicator, parameter)
	b.WriteString("   if(signal > Close[0])\n")
	b.WriteString("   {\n      // buy signal\n   }\n")
	b.WriteString("   else\n")
	b.WriteString("   {\n      // sell signal\n   }\n")
	b.WriteString("}\n")

	return b.String(), nil
}

// riskSetting reads a numeric value from the nested riskSettings document
func riskSetting(cfg model.Configuration, key string, def float64) float64 {
	raw, ok := cfg["riskSettings"].(map[string]interface{})
	if !ok {
		return def
	}
	return model.Configuration(raw).Float(key, def)
}
