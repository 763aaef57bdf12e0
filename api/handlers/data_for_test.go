package handlers

var testHotels = []map[string]any{
	{
		"id": "36934", "name": "Bund Riverside Hotel", "address": "1 Zhongshan Road", "price": 280, "score": 45,
		"brand": "Hilton", "city": "Shanghai", "starName": "5 stars", "business": "Bund/Nanjing Road",
		"latitude": 31.2400, "longitude": 121.4900, "pic": "https://example.com/1.jpg", "isAD": false,
	},
	{
		"id": "38609", "name": "Jingan Garden Hotel", "address": "88 Yanan Road", "price": 150, "score": 42,
		"brand": "Hyatt", "city": "Shanghai", "starName": "4 stars", "business": "Jingan",
		"latitude": 31.2230, "longitude": 121.4450, "pic": "https://example.com/2.jpg", "isAD": true,
	},
	{
		"id": "38665", "name": "Pudong Airport Inn", "address": "6 Airport Road", "price": 480, "score": 38,
		"brand": "Hilton", "city": "Shanghai", "starName": "3 stars", "business": "Pudong",
		"latitude": 31.1440, "longitude": 121.8080, "pic": "https://example.com/3.jpg", "isAD": true,
	},
	{
		"id": "38812", "name": "Sanlitun Hotel", "address": "3 Sanlitun Road", "price": 200, "score": 47,
		"brand": "Marriott", "city": "Beijing", "starName": "5 stars", "business": "Sanlitun",
		"latitude": 39.9330, "longitude": 116.4540, "pic": "https://example.com/4.jpg", "isAD": true,
	},
	{
		"id": "39106", "name": "West Lake Lodge", "address": "9 Beishan Road", "price": 120, "score": 40,
		"brand": "Hyatt", "city": "Hangzhou", "starName": "4 stars", "business": "West Lake",
		"latitude": 30.2590, "longitude": 120.1480, "pic": "https://example.com/5.jpg", "isAD": false,
	},
}
