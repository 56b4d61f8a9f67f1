package enums

import "fmt"

type ProductCategory string

const (
	ProductCategoryDigitalDevice     ProductCategory = "DIGITAL_DEVICE"
	ProductCategoryHomeAppliance     ProductCategory = "HOME_APPLIANCE"
	ProductCategoryFurnitureInterior ProductCategory = "FURNITURE_INTERIOR"
	ProductCategoryChildren          ProductCategory = "CHILDREN"
	ProductCategoryFood              ProductCategory = "FOOD"
	ProductCategoryChildrenBook      ProductCategory = "CHILDREN_BOOK"
	ProductCategorySportsLeisure     ProductCategory = "SPORTS_LEISURE"
	ProductCategoryWomenAccessories  ProductCategory = "WOMEN_ACCESSORIES"
	ProductCategoryWomenClothing     ProductCategory = "WOMEN_CLOTHING"
	ProductCategoryMenFashion        ProductCategory = "MEN_FASHION"
	ProductCategoryGameHobby         ProductCategory = "GAME_HOBBY"
	ProductCategoryBeauty            ProductCategory = "BEAUTY"
	ProductCategoryPetSupplies       ProductCategory = "PET_SUPPLIES"
	ProductCategoryBookTicketMusic   ProductCategory = "BOOK_TICKET_MUSIC"
	ProductCategoryPlant             ProductCategory = "PLANT"
	ProductCategoryEtc               ProductCategory = "ETC"
)

var validProductCategories = []ProductCategory{
	ProductCategoryDigitalDevice,
	ProductCategoryHomeAppliance,
	ProductCategoryFurnitureInterior,
	ProductCategoryChildren,
	ProductCategoryFood,
	ProductCategoryChildrenBook,
	ProductCategorySportsLeisure,
	ProductCategoryWomenAccessories,
	ProductCategoryWomenClothing,
	ProductCategoryMenFashion,
	ProductCategoryGameHobby,
	ProductCategoryBeauty,
	ProductCategoryPetSupplies,
	ProductCategoryBookTicketMusic,
	ProductCategoryPlant,
	ProductCategoryEtc,
}

var productCategoryLabels = map[ProductCategory]string{
	ProductCategoryDigitalDevice:     "디지털기기",
	ProductCategoryHomeAppliance:     "생활가전",
	ProductCategoryFurnitureInterior: "가구/인테리어",
	ProductCategoryChildren:          "유아동",
	ProductCategoryFood:              "생활/가공식품",
	ProductCategoryChildrenBook:      "유아도서",
	ProductCategorySportsLeisure:     "스포츠/레저",
	ProductCategoryWomenAccessories:  "여성잡화",
	ProductCategoryWomenClothing:     "여성의류",
	ProductCategoryMenFashion:        "남성패션/잡화",
	ProductCategoryGameHobby:         "게임/취미",
	ProductCategoryBeauty:            "뷰티/미용",
	ProductCategoryPetSupplies:       "반려동물용품",
	ProductCategoryBookTicketMusic:   "도서/티켓/음반",
	ProductCategoryPlant:             "식물",
	ProductCategoryEtc:               "기타",
}

func (c ProductCategory) IsValid() bool {
	_, ok := productCategoryLabels[c]
	return ok
}

func (c ProductCategory) Label() string {
	return productCategoryLabels[c]
}

func ParseProductCategory(value string) (ProductCategory, error) {
	c := ProductCategory(value)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid product category %q", value)
	}
	return c, nil
}

func ProductCategoryOptions() []Option {
	out := make([]Option, 0, len(validProductCategories))
	for _, c := range validProductCategories {
		out = append(out, Option{Key: string(c), Label: c.Label()})
	}
	return out
}
