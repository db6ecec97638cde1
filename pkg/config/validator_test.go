package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/soaptrace/pkg/contract"
)

func TestValidateAssembly(t *testing.T) {
	op := func(name, rename string, params ...string) *contract.Method {
		m := &contract.Method{Name: name, Operation: &contract.OperationAttr{Name: rename}}
		for _, p := range params {
			m.Params = append(m.Params, contract.Param{Type: p})
		}
		return m
	}
	iface := func(name string, methods ...*contract.Method) *contract.Type {
		return &contract.Type{FullName: name, Kind: contract.KindInterface, Contract: &contract.ContractAttr{}, Methods: methods}
	}

	tests := []struct {
		name    string
		asm     *contract.Assembly
		wantErr string
	}{
		{
			name: "valid",
			asm:  &contract.Assembly{Name: "Shop", Types: []*contract.Type{iface("Shop.IOrders", op("Add", "", "int"), op("Add", "AddLong", "long"))}},
		},
		{
			name:    "missing assembly name",
			asm:     &contract.Assembly{},
			wantErr: "validation error on name",
		},
		{
			name:    "duplicate type",
			asm:     &contract.Assembly{Name: "Shop", Types: []*contract.Type{iface("Shop.IOrders"), iface("Shop.IOrders")}},
			wantErr: "duplicate type Shop.IOrders",
		},
		{
			name:    "empty type name",
			asm:     &contract.Assembly{Name: "Shop", Types: []*contract.Type{iface("")}},
			wantErr: "types[0].fullName",
		},
		{
			name: "unknown style",
			asm: &contract.Assembly{Name: "Shop", Types: []*contract.Type{{
				FullName: "Shop.IOrders",
				Kind:     contract.KindInterface,
				Contract: &contract.ContractAttr{Format: &contract.FormatAttr{Style: "literal"}},
			}}},
			wantErr: `types[0].contract.format.style: invalid style "literal"`,
		},
		{
			name:    "duplicate method",
			asm:     &contract.Assembly{Name: "Shop", Types: []*contract.Type{iface("Shop.IOrders", op("Add", "A", "int"), op("Add", "B", "int"))}},
			wantErr: "duplicate method Add(int)",
		},
		{
			name:    "ambiguous overloads",
			asm:     &contract.Assembly{Name: "Shop", Types: []*contract.Type{iface("Shop.IOrders", op("Add", "", "int"), op("Add", "", "long"))}},
			wantErr: "overloads of Add need a name override",
		},
		{
			name: "operation without contract",
			asm: &contract.Assembly{Name: "Shop", Types: []*contract.Type{{
				FullName: "Shop.Helper",
				Kind:     contract.KindClass,
				Methods:  []*contract.Method{op("Run", "")},
			}}},
			wantErr: "without a contract attribute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssembly(tt.asm)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateManifest(t *testing.T) {
	inline := []*contract.Type{{FullName: "Shop.X", Kind: "enum"}}

	err := ValidateManifest(&Manifest{Assemblies: []AssemblyEntry{
		{Name: ""},
		{Name: "Shop", Types: inline, File: "shop.yaml"},
	}})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 3)
	assert.Equal(t, "assemblies[0].name", verrs[0].Field)
	assert.Equal(t, "assemblies[1].file", verrs[1].Field)
	assert.Equal(t, "assemblies[1].types[0].kind", verrs[2].Field)

	assert.NoError(t, ValidateManifest(&Manifest{Assemblies: []AssemblyEntry{
		{Name: "Shop", Version: "1.0.0.0"},
		{Name: "Shop", Version: "2.0.0.0"},
	}}))
}
