package catalog

import "github.com/garyjia/claim-forms/internal/domain/entity"

// SignaturePlacements returns the built-in signature rectangles keyed by form type
func SignaturePlacements() map[string]entity.SignaturePlacement {
	at := func(x, y float64) entity.SignaturePlacement {
		return entity.SignaturePlacement{X: x, Y: y, Width: 200, Height: 60, Opacity: entity.DefaultSignatureOpacity}
	}
	return map[string]entity.SignaturePlacement{
		entity.FormIDABSA:                 at(74, 373),
		entity.FormIDClearanceCertificate: at(87, 575),
		entity.FormIDSAHLCertificate:      at(71, 586),
		entity.FormIDDiscovery:            at(380, 110),
		entity.FormIDLiability:            at(360, 580),
		entity.FormIDNonCompliance:        at(300, 700),
		entity.FormIDMaterialList:         at(320, 750),
	}
}
