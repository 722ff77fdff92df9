package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"lending/core"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "manage supported assets",
}

var addAssetCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"update"},
	Short:   "add or update an asset, its market is opened on first add",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		asset, err := assetFromFlags(cmd)
		if err != nil {
			return err
		}

		database := provideDatabase()
		defer database.Close()

		block, err := provideBlockService().CurrentBlock(ctx)
		if err != nil {
			return err
		}

		err = provideLedgerStore(database).Update(ctx, func(l core.Ledger) error {
			if err := l.SaveAsset(ctx, asset); err != nil {
				return err
			}

			if _, err := l.FindMarket(ctx, asset.AssetID); err == nil {
				return nil
			} else if !errors.Is(err, core.ErrInvalidAsset) {
				return err
			}

			return l.SaveMarket(ctx, core.NewMarket(asset.AssetID, block))
		})
		if err != nil {
			return err
		}

		return printJSON(cmd, asset)
	},
}

var listAssetsCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "list assets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		var assets []*core.Asset
		err := provideLedgerStore(database).View(ctx, func(l core.Ledger) (err error) {
			assets, err = l.ListAssets(ctx)
			return err
		})
		if err != nil {
			return err
		}

		return printJSON(cmd, assets)
	},
}

func assetFromFlags(cmd *cobra.Command) (*core.Asset, error) {
	flags := cmd.Flags()

	assetID, _ := flags.GetString("asset")
	if !govalidator.IsUUID(assetID) {
		return nil, fmt.Errorf("asset id %q: %w", assetID, core.ErrInvalidAsset)
	}

	asset := &core.Asset{AssetID: assetID}
	asset.Symbol, _ = flags.GetString("symbol")
	asset.OracleRef, _ = flags.GetString("oracle")
	asset.BorrowEnabled, _ = flags.GetBool("borrow")
	asset.CollateralEnabled, _ = flags.GetBool("collateral")

	factor, _ := flags.GetInt64("collateral-factor")
	asset.CollateralFactor = core.Permille(factor)

	if borrowCap, _ := flags.GetString("borrow-cap"); borrowCap != "" {
		v, err := decimal.NewFromString(borrowCap)
		if err != nil {
			return nil, fmt.Errorf("borrow cap %q: %w", borrowCap, core.ErrInvalidAmount)
		}

		asset.BorrowCap = v
	}

	if err := asset.Validate(); err != nil {
		return nil, err
	}

	return asset, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	cmd.Println(string(data))
	return nil
}

func init() {
	rootCmd.AddCommand(assetCmd)
	assetCmd.AddCommand(addAssetCmd, listAssetsCmd)

	flags := addAssetCmd.Flags()
	flags.String("asset", "", "asset id")
	flags.String("symbol", "", "asset symbol")
	flags.String("oracle", "", "oracle ref the price feed is published under")
	flags.Int64("collateral-factor", 0, "collateral factor in permille, at most 900")
	flags.Bool("borrow", false, "borrow enabled")
	flags.Bool("collateral", false, "collateral enabled")
	flags.String("borrow-cap", "", "total borrow cap, empty for unlimited")
}
