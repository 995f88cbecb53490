// Package entity はdashboardフィーチャーのドメインモデルを定義します。
package entity

// FuelType はデータセットが追跡する燃料種別です。
type FuelType string

const (
	FuelTypeUnleaded95    FuelType = "UNLEADED_95"
	FuelTypeUnleaded100   FuelType = "UNLEADED_100"
	FuelTypeGas           FuelType = "GAS"
	FuelTypeDiesel        FuelType = "DIESEL"
	FuelTypeDieselHeating FuelType = "DIESEL_HEATING"
	FuelTypeSuper         FuelType = "SUPER"
)

// fuelTypeInfo は燃料種別ごとの表示ラベルとチャートの線色です。
type fuelTypeInfo struct {
	label  string
	color  string
	hidden bool
}

// fuelTypeOrder は表示順（列挙順）です。テーブルとチャートは常にこの順序で描画されます。
var fuelTypeOrder = []FuelType{
	FuelTypeUnleaded95,
	FuelTypeUnleaded100,
	FuelTypeGas,
	FuelTypeDiesel,
	FuelTypeDieselHeating,
	FuelTypeSuper,
}

var fuelTypeInfos = map[FuelType]fuelTypeInfo{
	FuelTypeUnleaded95:    {label: "Αμόλυβδη 95", color: "rgb(64, 83, 211)"},
	FuelTypeUnleaded100:   {label: "Αμόλυβδη 100", color: "rgb(211, 179, 16)"},
	FuelTypeGas:           {label: "Υγραέριο", color: "rgb(0, 178, 93)"},
	FuelTypeDiesel:        {label: "Diesel", color: "rgb(0, 190, 255)"},
	FuelTypeDieselHeating: {label: "Diesel Θέρμανσης", color: "rgb(251, 73, 176)"},
	FuelTypeSuper:         {label: "Super", color: "rgb(181, 29, 20)", hidden: true},
}

// FuelTypes は全燃料種別を列挙順で返します。戻り値は呼び出し側で変更しても安全なコピーです。
func FuelTypes() []FuelType {
	out := make([]FuelType, len(fuelTypeOrder))
	copy(out, fuelTypeOrder)
	return out
}

// ParseFuelType はAPIの燃料種別文字列を既知の種別に変換します。未知の場合はfalseを返します。
func ParseFuelType(s string) (FuelType, bool) {
	ft := FuelType(s)
	_, ok := fuelTypeInfos[ft]
	return ft, ok
}

// Known は既知の燃料種別かどうかを返します。
func (f FuelType) Known() bool {
	_, ok := fuelTypeInfos[f]
	return ok
}

// Label は表示用ラベルを返します。未知の種別は識別子をそのまま返します。
func (f FuelType) Label() string {
	if info, ok := fuelTypeInfos[f]; ok {
		return info.label
	}
	return string(f)
}

// Color はチャートの線色を返します。
func (f FuelType) Color() string {
	return fuelTypeInfos[f].color
}

// Hidden はチャートの凡例でデフォルト非表示かどうかを返します。
func (f FuelType) Hidden() bool {
	return fuelTypeInfos[f].hidden
}
